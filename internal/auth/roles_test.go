package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/event-reservation/internal/domain"
)

func TestCan(t *testing.T) {
	tests := []struct {
		role domain.Role
		perm Permission
		want bool
	}{
		{domain.RoleUser, PermReserveSeats, true},
		{domain.RoleUser, PermCreateEvents, false},
		{domain.RoleUser, PermAdmin, false},
		{domain.RoleHost, PermCreateEvents, true},
		{domain.RoleHost, PermManageEvents, true},
		{domain.RoleHost, PermReserveSeats, false},
		{domain.RoleHost, PermAdmin, false},
		{domain.RoleAdmin, PermManageEvents, true},
		{domain.RoleAdmin, PermAdmin, true},
		{domain.RoleAdmin, PermCreateEvents, false},
		{domain.Role("GUEST"), PermReserveSeats, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.role, tt.perm))
		})
	}
}

func TestRolesWith(t *testing.T) {
	roles := RolesWith(PermManageEvents)
	assert.True(t, roles.Contains(domain.RoleHost, domain.RoleAdmin))
	assert.False(t, roles.Contains(domain.RoleUser))
	assert.Equal(t, 1, RolesWith(PermAdmin).Cardinality())
}
