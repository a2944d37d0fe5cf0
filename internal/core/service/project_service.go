package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// ProjectService implements project creation and lookup.
type ProjectService struct {
	repo ports.ProjectRepository
	now  func() time.Time
}

func NewProjectService(repo ports.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo, now: time.Now}
}

func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.Project{
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Status:      domain.ProjectPlanning,
		CreatedByID: in.CreatedBy,
		ManagerID:   in.ManagerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.ErrNotFound.WithMessage("project not found")
		}
		return nil, err
	}
	return p, nil
}
