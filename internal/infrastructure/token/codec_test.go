package token

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

var issuedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(t *testing.T, clock *fakeClock) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		Secret: []byte("test-secret-0123456789"),
		TTL:    time.Hour,
		Issuer: "procurement-api",
		Now:    clock.Now,
	})
	require.NoError(t, err)
	return c
}

func sampleClaims() domain.Claims {
	return domain.Claims{
		ID:         "u-1",
		Email:      "admin@construction.com",
		Username:   "admin",
		Name:       "System Admin",
		Role:       domain.RoleAdmin,
		Department: "IT",
	}
}

func TestCodec_IssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)

	raw, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	got, err := c.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleClaims(), got)
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)
	ttl := 30 * time.Minute

	raw, err := c.Issue(sampleClaims(), ttl)
	require.NoError(t, err)

	cases := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"at issuance", issuedAt, nil},
		{"one second before expiry", issuedAt.Add(ttl - time.Second), nil},
		{"exactly at expiry", issuedAt.Add(ttl), ErrExpired},
		{"after expiry", issuedAt.Add(ttl + time.Hour), ErrExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock.Set(tc.at)
			_, err := c.Verify(raw)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCodec_SubSecondIssueTime(t *testing.T) {
	clock := &fakeClock{now: issuedAt.Add(700 * time.Millisecond)}
	c := newTestCodec(t, clock)
	ttl := time.Hour

	raw, err := c.Issue(sampleClaims(), ttl)
	require.NoError(t, err)

	var sc sessionClaims
	_, _, err = jwt.NewParser().ParseUnverified(raw, &sc)
	require.NoError(t, err)
	require.NotNil(t, sc.IssuedAt)
	require.NotNil(t, sc.ExpiresAt)
	assert.True(t, sc.IssuedAt.Time.Equal(issuedAt), "iat is the issue time truncated to the second")
	assert.Equal(t, ttl, sc.ExpiresAt.Time.Sub(sc.IssuedAt.Time))

	clock.Set(issuedAt.Add(ttl - time.Millisecond))
	_, err = c.Verify(raw)
	assert.NoError(t, err)

	clock.Set(issuedAt.Add(ttl))
	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodec_DefaultTTL(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c, err := NewCodec(Config{Secret: []byte("test-secret-0123456789"), Now: clock.Now})
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL())

	raw, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	clock.Set(issuedAt.Add(DefaultTTL - time.Second))
	_, err = c.Verify(raw)
	assert.NoError(t, err)

	clock.Set(issuedAt.Add(DefaultTTL))
	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodec_Malformed(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)

	raw, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	other, err := NewCodec(Config{Secret: []byte("another-secret-9876543210"), Issuer: "procurement-api", Now: clock.Now})
	require.NoError(t, err)
	foreign, err := other.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":   "u-1",
		"role": "ADMIN",
		"exp":  issuedAt.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":            "",
		"garbage":          "not-a-token",
		"wrong secret":     foreign,
		"tampered payload": tampered,
		"alg none":         none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Verify(token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCodec_RejectsUnknownRoleClaim(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		ID:   "u-1",
		Role: "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "procurement-api",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret-0123456789"))
	require.NoError(t, err)

	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_RequiresExpiry(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		ID:               "u-1",
		Role:             "STAFF",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "procurement-api"},
	}).SignedString([]byte("test-secret-0123456789"))
	require.NoError(t, err)

	_, err = c.Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_RotateInvalidatesOutstandingTokens(t *testing.T) {
	clock := &fakeClock{now: issuedAt}
	c := newTestCodec(t, clock)

	before, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	require.NoError(t, c.Rotate([]byte("rotated-secret-abcdefgh")))

	_, err = c.Verify(before)
	assert.ErrorIs(t, err, ErrMalformed)

	after, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)
	_, err = c.Verify(after)
	assert.NoError(t, err)
}

func TestCodec_SecretValidation(t *testing.T) {
	_, err := NewCodec(Config{Secret: []byte("short")})
	assert.Error(t, err)

	c, err := NewCodec(Config{Secret: []byte("test-secret-0123456789")})
	require.NoError(t, err)
	assert.Error(t, c.Rotate(nil))
}

func TestCodec_IssueRejectsIncompleteClaims(t *testing.T) {
	c := newTestCodec(t, &fakeClock{now: issuedAt})

	_, err := c.Issue(domain.Claims{Role: domain.RoleStaff}, 0)
	assert.Error(t, err)

	_, err = c.Issue(domain.Claims{ID: "u-1", Role: "ROOT"}, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestCodec_ConcurrentVerifyDuringRotate(t *testing.T) {
	c := newTestCodec(t, &fakeClock{now: issuedAt})
	raw, err := c.Issue(sampleClaims(), 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = c.Verify(raw)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Rotate([]byte("rotated-secret-abcdefgh")))
	}
	wg.Wait()
}
