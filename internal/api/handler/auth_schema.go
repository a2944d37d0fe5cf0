package handler

import "github.com/buildtrack/procurement-api/internal/core/domain"

// registerRequest caps passwords at 72 characters, the bcrypt input limit.
type registerRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Username   string `json:"username"   validate:"required,min=3,max=50"`
	Password   string `json:"password"   validate:"required,min=6,max=72"`
	Name       string `json:"name"       validate:"required,min=1,max=100"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Phone      string `json:"phone"      validate:"omitempty,max=30"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type updateProfileRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=1,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Phone      *string `json:"phone"      validate:"omitempty,max=30"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{Name: r.Name, Department: r.Department, Phone: r.Phone}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=72"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

type changeStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type createProjectRequest struct {
	Code      string `json:"code"      validate:"required,min=2,max=50"`
	Name      string `json:"name"      validate:"required,min=1,max=200"`
	ManagerID string `json:"managerId" validate:"omitempty,max=64"`
}
