package auth

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-reservation/internal/domain"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// Permission names an action a route may require.
type Permission string

const (
	PermReserveSeats Permission = "reservations:write"
	PermCreateEvents Permission = "events:create"
	PermManageEvents Permission = "events:manage"
	PermAdmin        Permission = "admin"
)

var rolePermissions = map[domain.Role]mapset.Set[Permission]{
	domain.RoleUser:  mapset.NewSet(PermReserveSeats),
	domain.RoleHost:  mapset.NewSet(PermCreateEvents, PermManageEvents),
	domain.RoleAdmin: mapset.NewSet(PermManageEvents, PermAdmin),
}

// Can reports whether role grants perm.
func Can(role domain.Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms.Contains(perm)
}

// RolesWith returns the set of roles granting perm.
func RolesWith(perm Permission) mapset.Set[domain.Role] {
	roles := mapset.NewSet[domain.Role]()
	for role, perms := range rolePermissions {
		if perms.Contains(perm) {
			roles.Add(role)
		}
	}
	return roles
}

// Require ensures the authenticated principal holds perm. The allowed role set
// is resolved once, when the route is registered.
func Require(perm Permission) fiber.Handler {
	allowed := RolesWith(perm)
	message := fmt.Sprintf("permission %s required", perm)

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(apperrors.ReasonNoToken, "authentication required")
		}
		if !allowed.Contains(principal.Role) {
			return apperrors.NewForbidden(apperrors.ReasonRoleRequired, message)
		}
		return c.Next()
	}
}
