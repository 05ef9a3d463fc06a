package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Reason codes carried in DomainError.Details["reason"].
const (
	ReasonNoToken                = "no_token"
	ReasonInvalidToken           = "invalid_token"
	ReasonInvalidCredentials     = "invalid_credentials"
	ReasonRoleRequired           = "role_required"
	ReasonNotOwner               = "not_owner"
	ReasonAlreadyReserved        = "already_reserved"
	ReasonEventFull              = "event_full"
	ReasonEmailTaken             = "email_taken"
	ReasonCapacityBelowReserved  = "capacity_below_reserved"
	ReasonSelfDeletionNotAllowed = "self_deletion_not_allowed"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Reason returns the machine readable reason, if any.
func (e *DomainError) Reason() string {
	if e == nil || e.Details == nil {
		return ""
	}
	reason, _ := e.Details["reason"].(string)
	return reason
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func withReason(reason string) map[string]any {
	if reason == "" {
		return nil
	}
	return map[string]any{"reason": reason}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(reason, message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, withReason(reason))
}

func NewForbidden(reason, message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, withReason(reason))
}

func NewConflict(reason, message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, withReason(reason))
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func fromFiberError(err *fiber.Error) *DomainError {
	switch {
	case err.Code == http.StatusNotFound:
		return NewDomainError("NOT_FOUND", err.Message, err.Code, nil)
	case err.Code == http.StatusMethodNotAllowed:
		return NewDomainError("METHOD_NOT_ALLOWED", err.Message, err.Code, nil)
	case err.Code == http.StatusRequestEntityTooLarge:
		return NewDomainError("PAYLOAD_TOO_LARGE", err.Message, err.Code, nil)
	case err.Code >= 400 && err.Code < 500:
		return NewDomainError("BAD_REQUEST", err.Message, err.Code, nil)
	default:
		return &DomainError{
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
