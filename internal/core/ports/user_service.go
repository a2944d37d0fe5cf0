package ports

import (
	"context"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// UserService covers administrative identity management.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	ChangeRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}
