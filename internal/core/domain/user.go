package domain

import "time"

// User models a registered identity. Email and Username are each unique
// across all users; identities are deactivated, never deleted.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Claims is the identity snapshot embedded in a session token at issuance.
type Claims struct {
	ID         string
	Email      string
	Username   string
	Name       string
	Role       Role
	Department string
}

// Claims returns the token claim set for u.
func (u *User) Claims() Claims {
	return Claims{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
	}
}

// Principal returns the request-scoped projection of u.
func (u *User) Principal() Principal {
	return Principal{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
	}
}

// ProfileUpdate is a partial update of the self-editable profile fields.
// A nil field is left unchanged.
type ProfileUpdate struct {
	Name       *string
	Department *string
	Phone      *string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Department == nil && p.Phone == nil
}

// Apply copies the non-nil fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
}
