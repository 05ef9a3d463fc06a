package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-reservation/internal/api/dto"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/service"
)

// ReservationsHandler manages the caller's reservations.
type ReservationsHandler struct {
	reservations *service.ReservationService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservationService *service.ReservationService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservationService}
}

// List handles GET /reservations.
func (h *ReservationsHandler) List(c *fiber.Ctx, principal auth.Principal) error {
	list, err := h.reservations.ListReservedEvents(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventList(list))
}

// Create handles POST /reservations.
func (h *ReservationsHandler) Create(c *fiber.Ctx, principal auth.Principal) error {
	eventID, err := reservationEventID(c)
	if err != nil {
		return err
	}
	result, err := h.reservations.Reserve(c.UserContext(), principal, eventID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReservationCreatedResponse{
		ReservationID:  result.Reservation.ID,
		EventID:        result.Reservation.EventID,
		SeatsRemaining: result.SeatsRemaining,
	})
}

// Cancel handles DELETE /reservations.
func (h *ReservationsHandler) Cancel(c *fiber.Ctx, principal auth.Principal) error {
	eventID, err := reservationEventID(c)
	if err != nil {
		return err
	}
	if err := h.reservations.Cancel(c.UserContext(), principal, eventID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "reservation cancelled"})
}

// reservationEventID reads eventId from the JSON body, falling back to the query string.
func reservationEventID(c *fiber.Ctx) (string, error) {
	var req dto.ReservationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return "", invalidPayload()
		}
	}
	if req.EventID == "" {
		req.EventID = c.Query("eventId")
	}
	return req.EventID, nil
}
