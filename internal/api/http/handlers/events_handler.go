package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-reservation/internal/api/dto"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/service"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// EventsHandler manages event endpoints.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// ListAll handles GET /events/all.
func (h *EventsHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.events.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventList(list))
}

// ListManaged handles GET /events.
func (h *EventsHandler) ListManaged(c *fiber.Ctx, principal auth.Principal) error {
	list, err := h.events.ListManaged(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventList(list))
}

// Create handles POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx, principal auth.Principal) error {
	patch, err := parseEventRequest(c)
	if err != nil {
		return err
	}

	in := service.EventInput{}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Date != nil {
		in.Date = *patch.Date
	}
	if patch.Location != nil {
		in.Location = *patch.Location
	}
	if patch.Capacity != nil {
		in.Capacity = *patch.Capacity
	}

	event, err := h.events.Create(c.UserContext(), principal, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateEventResponse{EventID: event.ID})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx, principal auth.Principal) error {
	detail, err := h.events.Get(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.EventDetailResponse{
		Event:        dto.NewEventResponse(detail.Event),
		Reservations: dto.NewReservationList(detail.Reservations),
		UserID:       principal.UserID,
	})
}

// Update handles PUT /events/:id and PUT /admin/events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx, principal auth.Principal) error {
	patch, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	event, err := h.events.Update(c.UserContext(), principal, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventResponse(event))
}

// Delete handles DELETE /events/:id and DELETE /admin/events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx, principal auth.Principal) error {
	if err := h.events.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "event deleted"})
}

func parseEventRequest(c *fiber.Ctx) (service.EventPatch, error) {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return service.EventPatch{}, invalidPayload()
	}

	patch := service.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.MaxParticipants,
	}
	if req.Date != nil {
		date, err := dto.ParseEventDate(*req.Date)
		if err != nil {
			return service.EventPatch{}, apperrors.NewValidationError(
				"date must be RFC 3339 or YYYY-MM-DD HH:mm:ss", map[string]any{"field": "date"})
		}
		patch.Date = &date
	}
	return patch, nil
}
