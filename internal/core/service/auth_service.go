package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// timingPassword is hashed once and compared against when a login names an
// unknown identity, so both failure paths pay for one bcrypt comparison.
const timingPassword = "timing-equalizer-not-a-credential"

// AuthService implements registration, login and self-service credential
// management.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

// Register creates a STAFF identity and issues its first token. A collision
// on either handle is reported as EMAIL_EXISTS or USERNAME_EXISTS and nothing
// is written.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	existing, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		if strings.EqualFold(existing.Email, email) {
			return nil, domain.ErrEmailExists
		}
		return nil, domain.ErrUsernameExists
	case !errors.Is(err, domain.ErrNoRecord):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         domain.DefaultRole,
		Department:   in.Department,
		Phone:        in.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		// Lost a race with a concurrent registration between the check and the insert.
		var se *domain.StoreError
		if errors.As(err, &se) && se.Kind == domain.StoreErrUnique {
			if strings.Contains(se.Field, "username") {
				return nil, domain.ErrUsernameExists.WithCause(err)
			}
			return nil, domain.ErrEmailExists.WithCause(err)
		}
		return nil, err
	}

	token, err := s.issue(created.Claims(), "register")
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login resolves an active identity by email or username and verifies the
// password. Every failure cause yields the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	handle := strings.TrimSpace(identifier)
	if strings.Contains(handle, "@") {
		handle = normalizeEmail(handle)
	}

	user, err := s.repo.FindActiveByHandle(ctx, handle)
	if err != nil {
		if !errors.Is(err, domain.ErrNoRecord) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.equalizeTiming(ctx, password)
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.Touch(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record login timestamp")
	}

	token, err := s.issue(user.Claims(), "login")
	if err != nil {
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Me returns the current state of the caller's identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial update of name, department and phone.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return s.Me(ctx, userID)
	}
	user, err := s.repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword re-verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Compare(ctx, user.PasswordHash, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCurrentPassword
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return domain.ErrUserNotFound
		}
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// Refresh issues a new token from the resolved identity of a request that
// already carried a valid token.
func (s *AuthService) Refresh(_ context.Context, principal domain.Principal) (string, error) {
	return s.issue(principal.Claims(), "refresh")
}

func (s *AuthService) issue(claims domain.Claims, reason string) (string, error) {
	token, err := s.tokens.Issue(claims, 0)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(reason).Inc()
	return token, nil
}

func (s *AuthService) equalizeTiming(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(ctx, timingPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare timing hash")
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Compare(ctx, s.dummyHash, password)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
