package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-reservation/internal/api/dto"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/service"
)

// AdminHandler exposes account, event and reservation administration.
type AdminHandler struct {
	users        *service.UserService
	events       *service.EventService
	reservations *service.ReservationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, events *service.EventService, reservations *service.ReservationService) *AdminHandler {
	return &AdminHandler{users: users, events: events, reservations: reservations}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(items)
}

// CreateUser handles POST /admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	user, err := h.users.Create(c.UserContext(), service.UserInput{
		Email:     deref(req.Email),
		Password:  deref(req.Password),
		FirstName: deref(req.FirstName),
		LastName:  deref(req.LastName),
		Role:      domain.Role(deref((*string)(req.Role))),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// UpdateUser handles PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UserPatch{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx, principal auth.Principal) error {
	if err := h.users.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "user deleted"})
}

// ListEvents handles GET /admin/events.
func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	list, err := h.events.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventList(list))
}

// ListReservations handles GET /admin/events/:id/reservations.
func (h *AdminHandler) ListReservations(c *fiber.Ctx) error {
	list, err := h.reservations.ListForEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReservationList(list))
}

// UpdateReservation handles PUT /admin/events/:id/reservations/:reservationId.
func (h *AdminHandler) UpdateReservation(c *fiber.Ctx, principal auth.Principal) error {
	var req dto.ReservationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	res, err := h.reservations.UpdateStatus(c.UserContext(), principal, c.Params("id"), c.Params("reservationId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReservationResponse(res))
}

// DeleteReservation handles DELETE /admin/events/:id/reservations/:reservationId.
func (h *AdminHandler) DeleteReservation(c *fiber.Ctx, principal auth.Principal) error {
	if err := h.reservations.Delete(c.UserContext(), principal, c.Params("id"), c.Params("reservationId")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "reservation deleted"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
