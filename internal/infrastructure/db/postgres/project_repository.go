package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// ProjectRepository is the PostgreSQL implementation of ports.ProjectRepository.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

const projectColumns = `id, code, name, status, created_by_id, manager_id, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p             domain.Project
		id, createdBy uuid.UUID
		managerID     *uuid.UUID
		status        string
	)
	if err := row.Scan(&id, &p.Code, &p.Name, &status, &createdBy, &managerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.String()
	p.Status = domain.ProjectStatus(status)
	p.CreatedByID = createdBy.String()
	if managerID != nil {
		p.ManagerID = managerID.String()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	createdBy, err := uuid.Parse(p.CreatedByID)
	if err != nil {
		return nil, &domain.StoreError{Kind: domain.StoreErrForeignKey, Field: "created_by_id", Err: err}
	}
	var managerID *uuid.UUID
	if p.ManagerID != "" {
		m, err := uuid.Parse(p.ManagerID)
		if err != nil {
			return nil, &domain.StoreError{Kind: domain.StoreErrForeignKey, Field: "manager_id", Err: err}
		}
		managerID = &m
	}

	created, err := scanProject(r.pool.QueryRow(ctx, `
		INSERT INTO projects (id, code, name, status, created_by_id, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		uuid.New(), p.Code, p.Name, string(p.Status), createdBy, managerID, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		return nil, translateError("insert project", err)
	}
	return created, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrNoRecord
	}
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, pid))
	if err != nil {
		return nil, translateError("find project", err)
	}
	return p, nil
}

// IsOwnedBy matches the project id together with creator-or-manager in a
// single query.
func (r *ProjectRepository) IsOwnedBy(ctx context.Context, projectID, userID string) (bool, error) {
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return false, nil
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}
	var owned bool
	err = r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM projects
			WHERE id = $1 AND (created_by_id = $2 OR manager_id = $2)
		)`, pid, uid).Scan(&owned)
	if err != nil {
		return false, translateError("check project ownership", err)
	}
	return owned, nil
}
