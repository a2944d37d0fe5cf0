package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "PLANNING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

// Project is the resource scoped by ownership checks: its creator and its
// manager may access it, admins always may.
type Project struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	CreatedByID string        `json:"createdById"`
	ManagerID   string        `json:"managerId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsOwnedBy reports whether userID created or manages p.
func (p *Project) IsOwnedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return p.CreatedByID == userID || p.ManagerID == userID
}
