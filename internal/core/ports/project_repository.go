package ports

import (
	"context"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// ProjectRepository defines persistence for the resources scoped by
// ownership checks.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	OwnershipChecker
}

// OwnershipChecker answers whether a user created or manages a project.
type OwnershipChecker interface {
	// IsOwnedBy reports whether a project with projectID exists whose creator
	// or manager is userID.
	IsOwnedBy(ctx context.Context, projectID, userID string) (bool, error)
}
