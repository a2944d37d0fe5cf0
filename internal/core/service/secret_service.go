package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
)

const rotatedSecretLen = 32

// SecretApplier swaps the signing secret used by this process.
type SecretApplier interface {
	Rotate(secret []byte) error
}

// SecretPublisher distributes a new signing secret to other instances.
type SecretPublisher interface {
	Rotate(ctx context.Context, secret []byte) error
}

// SecretService rotates the token signing secret. Rotation invalidates every
// outstanding token, including the caller's.
type SecretService struct {
	local     SecretApplier
	publisher SecretPublisher
	log       zerolog.Logger
}

// NewSecretService creates a SecretService. publisher may be nil, in which
// case rotation only affects this process.
func NewSecretService(local SecretApplier, publisher SecretPublisher, log zerolog.Logger) *SecretService {
	return &SecretService{local: local, publisher: publisher, log: log}
}

func (s *SecretService) RotateSecret(ctx context.Context) error {
	secret := make([]byte, rotatedSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Rotate(ctx, secret); err != nil {
			return fmt.Errorf("publish secret: %w", err)
		}
	}
	if err := s.local.Rotate(secret); err != nil {
		return fmt.Errorf("apply secret: %w", err)
	}

	metrics.SecretRotationsTotal.WithLabelValues("local").Inc()
	s.log.Warn().Bool("distributed", s.publisher != nil).Msg("signing secret rotated; all issued tokens are now invalid")
	return nil
}
