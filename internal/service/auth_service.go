package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/config"
	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/repository"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// bcrypt ignores input beyond this length.
const maxPasswordBytes = 72

// AuthService coordinates sign-up, sign-in and sign-out flows.
type AuthService struct {
	users      repository.UserRepository
	revoked    repository.TokenRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	TokenRepo repository.TokenRepository
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.TokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// SignUpInput carries the self-registration payload.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// SignInResult is returned on successful authentication.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// SignUp registers a USER or HOST account.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	missing := missingFields(map[string]string{
		"email":     in.Email,
		"password":  in.Password,
		"firstname": in.FirstName,
		"lastname":  in.LastName,
		"role":      string(in.Role),
	})
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"missing": missing})
	}
	if in.Role != domain.RoleUser && in.Role != domain.RoleHost {
		return nil, apperrors.NewValidationError("role must be USER or HOST", map[string]any{"field": "role"})
	}

	return s.createUser(ctx, in)
}

// SignIn verifies credentials and issues an access token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = normalizeEmail(email)
	missing := missingFields(map[string]string{"email": email, "password": password})
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"missing": missing})
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &SignInResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// SignOut revokes the caller's token until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, principal auth.Principal) error {
	if s.revoked == nil || principal.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// CurrentUser loads the account behind the principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal auth.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	_, err := s.createUser(ctx, SignUpInput{
		Email:     email,
		Password:  password,
		FirstName: "Admin",
		LastName:  "User",
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) createUser(ctx context.Context, in SignUpInput) (*domain.User, error) {
	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func hashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperrors.NewValidationError("password must be at most 72 bytes", map[string]any{"field": "password"})
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

func invalidCredentials() error {
	return apperrors.NewUnauthorized(apperrors.ReasonInvalidCredentials, "invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// missingFields returns the sorted names of blank values.
func missingFields(fields map[string]string) []string {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
