package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/config"
	"github.com/spec-kit/event-reservation/internal/domain"
	"github.com/spec-kit/event-reservation/internal/repository"
	apperrors "github.com/spec-kit/event-reservation/pkg/util"
)

// UserService implements account administration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, bcryptCost: cfg.BcryptCost, logger: logger}
}

// UserInput describes an account created by an administrator.
type UserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// UserPatch describes a partial account update. Nil fields are left unchanged.
type UserPatch struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, translate(err, "user")
	}
	return users, nil
}

// Create adds an account of any role.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
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
	if !in.Role.Valid() {
		return nil, invalidRole()
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update applies patch to the account id.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email must not be empty", map[string]any{"field": "email"})
		}
		user.Email = email
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, invalidRole()
		}
		user.Role = *patch.Role
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := hashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// Delete removes an account with its reservations and hosted events.
// Administrators cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if principal.UserID == id {
		return apperrors.NewValidationError("administrators cannot delete their own account",
			map[string]any{"reason": apperrors.ReasonSelfDeletionNotAllowed})
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return translate(err, "user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", principal.UserID))
	return nil
}

func invalidRole() error {
	return apperrors.NewValidationError("role must be USER, HOST or ADMIN", map[string]any{"field": "role"})
}
