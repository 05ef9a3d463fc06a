package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-reservation/internal/domain"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(tm *TokenManager, revoked RevocationChecker, perm Permission) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    de.Code,
				"details": de.Details,
			}})
		},
	})
	mw := NewAuthMiddleware(tm, revoked)
	app.Get("/me", mw.Handle, Require(perm), WithPrincipal(func(c *fiber.Ctx, p Principal) error {
		return c.JSON(fiber.Map{"id": p.UserID, "role": p.Role})
	}))
	return app
}

func doRequest(t *testing.T, app *fiber.App, header string) (int, errorBody, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	var body errorBody
	encoded, _ := json.Marshal(raw)
	_ = json.Unmarshal(encoded, &body)
	return resp.StatusCode, body, raw
}

func TestMiddlewareNoToken(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", time.Hour), nil, PermReserveSeats)

	status, body, _ := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ReasonNoToken, body.Error.Details["reason"])
}

func TestMiddlewareInvalidToken(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", time.Hour), nil, PermReserveSeats)

	for _, header := range []string{"Bearer garbage", "Basic abc", "Bearer"} {
		status, body, _ := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, apperrors.ReasonInvalidToken, body.Error.Details["reason"], header)
	}
}

func TestMiddlewareExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)
	tm.now = time.Now

	status, body, _ := doRequest(t, newTestApp(tm, nil, PermReserveSeats), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ReasonInvalidToken, body.Error.Details["reason"])
}

func TestMiddlewareForbiddenRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	status, body, _ := doRequest(t, newTestApp(tm, nil, PermAdmin), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.ReasonRoleRequired, body.Error.Details["reason"])
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	require.NoError(t, err)

	status, _, raw := doRequest(t, newTestApp(tm, nil, PermAdmin), "bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin-1", raw["id"])
	assert.Equal(t, "ADMIN", raw["role"])
}

func TestMiddlewareRevokedToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)
	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	revoked := stubRevocations{revoked: map[string]bool{claims.ID: true}}
	status, body, _ := doRequest(t, newTestApp(tm, revoked, PermReserveSeats), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ReasonInvalidToken, body.Error.Details["reason"])
}

func TestMiddlewareRevocationStoreFailure(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	revoked := stubRevocations{err: errors.New("redis down")}
	status, body, _ := doRequest(t, newTestApp(tm, revoked, PermReserveSeats), "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
