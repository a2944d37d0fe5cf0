package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// UserService implements administrative identity management.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// ChangeRole assigns role to the identity. Tokens already issued keep the old
// role claim until they are reissued.
func (s *UserService) ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{Message: "unknown role", Err: domain.ErrUnknownRole}
	}
	user, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("role", role.String()).Msg("user role changed")
	return user, nil
}

// SetActive activates or deactivates the identity. A deactivated identity
// fails authentication on its next request.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.repo.SetActive(ctx, userID, active)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Bool("active", active).Msg("user status changed")
	return user, nil
}
