package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// SeedUser describes a default identity created for development setups.
type SeedUser struct {
	Email      string
	Username   string
	Password   string
	Name       string
	Role       domain.Role
	Department string
}

// DefaultSeedUsers are the development accounts, one per common role.
var DefaultSeedUsers = []SeedUser{
	{Email: "admin@construction.com", Username: "admin", Password: "admin123", Name: "System Administrator", Role: domain.RoleAdmin, Department: "IT"},
	{Email: "manager@construction.com", Username: "manager", Password: "manager123", Name: "Project Manager", Role: domain.RoleManager, Department: "Projects"},
	{Email: "staff@construction.com", Username: "staff", Password: "staff123", Name: "Site Staff", Role: domain.RoleStaff, Department: "Operations"},
}

// SeedUsers creates each user whose email and username are both unused.
// Existing identities are left untouched, so repeated runs are no-ops.
func SeedUsers(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, users []SeedUser, log zerolog.Logger) (int, error) {
	created := 0
	for _, su := range users {
		_, err := repo.FindByEmailOrUsername(ctx, su.Email, su.Username)
		if err == nil {
			log.Debug().Str("username", su.Username).Msg("seed user exists, skipping")
			continue
		}
		if !errors.Is(err, domain.ErrNoRecord) {
			return created, fmt.Errorf("seed %s: %w", su.Username, err)
		}

		hash, err := hasher.Hash(ctx, su.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", su.Username, err)
		}
		now := time.Now().UTC()
		if _, err := repo.Create(ctx, &domain.User{
			Email:        su.Email,
			Username:     su.Username,
			PasswordHash: hash,
			Name:         su.Name,
			Role:         su.Role,
			Department:   su.Department,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return created, fmt.Errorf("seed %s: %w", su.Username, err)
		}
		created++
		log.Info().Str("username", su.Username).Str("role", su.Role.String()).Msg("seeded default user")
	}
	return created, nil
}
