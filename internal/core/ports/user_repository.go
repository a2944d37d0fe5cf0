package ports

import (
	"context"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// UserRepository defines identity persistence. Lookups that match nothing
// return domain.ErrNoRecord; constraint violations return *domain.StoreError.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindActiveByID matches only identities whose active flag is set.
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
	// FindActiveByHandle matches an active identity by email or username.
	FindActiveByHandle(ctx context.Context, handle string) (*domain.User, error)
	// FindByEmailOrUsername returns any identity, active or not, holding
	// either handle.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	// Touch bumps the identity's updated-at timestamp.
	Touch(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}

// IdentityLookup is the narrow read used by authentication on every request.
type IdentityLookup interface {
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
}
