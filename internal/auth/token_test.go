package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-reservation/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:        "user-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      domain.RoleHost,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, exp, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ada", claims.FirstName)
	assert.Equal(t, "Lovelace", claims.LastName)
	assert.Equal(t, domain.RoleHost, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRequiresKnownRole(t *testing.T) {
	claims := &Claims{
		UserID: "user-1",
		Role:   domain.Role("ROOT"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: domain.RoleUser}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	require.Error(t, err)
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	require.NoError(t, ComparePassword(hash, "s3cret!"))
	require.Error(t, ComparePassword(hash, "wrong"))
}
