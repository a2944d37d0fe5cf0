package ports

import (
	"context"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// CreateProjectInput carries the fields accepted when creating a project.
type CreateProjectInput struct {
	Code      string
	Name      string
	ManagerID string
	CreatedBy string
}

// ProjectService defines project use cases.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
}
