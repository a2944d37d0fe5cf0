package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
)

const (
	secretKey     = "auth:signing_secret"
	secretChannel = "auth:signing_secret:rotated"
)

// SecretStore shares the token signing secret between API instances.
// The secret lives under a single key; rotations are announced on a pub/sub
// channel with the publishing instance id as payload, and subscribers re-read
// the key.
type SecretStore struct {
	client     *redis.Client
	instanceID string
	log        zerolog.Logger
}

// NewSecretStore creates a SecretStore wrapping the given Redis client.
func NewSecretStore(client *redis.Client, log zerolog.Logger) *SecretStore {
	return &SecretStore{
		client:     client,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// Current returns the shared secret. ok is false when none was stored yet.
func (s *SecretStore) Current(ctx context.Context) (secret []byte, ok bool, err error) {
	b, err := s.client.Get(ctx, secretKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get signing secret: %w", err)
	}
	return b, true, nil
}

// Bootstrap stores fallback as the shared secret unless another instance
// already did, and returns whichever secret is now shared.
func (s *SecretStore) Bootstrap(ctx context.Context, fallback []byte) ([]byte, error) {
	if err := s.client.SetNX(ctx, secretKey, fallback, 0).Err(); err != nil {
		return nil, fmt.Errorf("bootstrap signing secret: %w", err)
	}
	secret, ok, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("bootstrap signing secret: key vanished")
	}
	return secret, nil
}

// Rotate stores secret and notifies the other instances.
func (s *SecretStore) Rotate(ctx context.Context, secret []byte) error {
	if err := s.client.Set(ctx, secretKey, secret, 0).Err(); err != nil {
		return fmt.Errorf("store signing secret: %w", err)
	}
	if err := s.client.Publish(ctx, secretChannel, s.instanceID).Err(); err != nil {
		return fmt.Errorf("announce signing secret: %w", err)
	}
	return nil
}

// Watch applies rotations announced by other instances until ctx is done.
// It fails only when the subscription cannot be established.
func (s *SecretStore) Watch(ctx context.Context, apply func([]byte) error) error {
	sub := s.client.Subscribe(ctx, secretChannel)
	defer sub.Close()

	// Wait for the subscription confirmation so no rotation is missed after
	// Watch is reported running.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", secretChannel, err)
	}
	s.log.Info().Str("channel", secretChannel).Msg("watching signing secret rotations")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if msg.Payload == s.instanceID {
				continue
			}
			if err := s.applyCurrent(ctx, apply); err != nil {
				s.log.Error().Err(err).Str("origin", msg.Payload).Msg("failed to apply rotated signing secret")
				continue
			}
			metrics.SecretRotationsTotal.WithLabelValues("remote").Inc()
			s.log.Warn().Str("origin", msg.Payload).Msg("signing secret rotated by another instance")
		}
	}
}

func (s *SecretStore) applyCurrent(ctx context.Context, apply func([]byte) error) error {
	secret, ok, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("rotation announced but no secret stored")
	}
	return apply(secret)
}
