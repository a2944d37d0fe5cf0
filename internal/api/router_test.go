package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/buildtrack/procurement-api/internal/api/handler"
	"github.com/buildtrack/procurement-api/internal/core/service"
	"github.com/buildtrack/procurement-api/internal/infrastructure/queue"
	"github.com/buildtrack/procurement-api/internal/infrastructure/token"
	"github.com/buildtrack/procurement-api/internal/testutil/memstore"
)

const (
	testTTL    = time.Hour
	testOrigin = "http://localhost:3000"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	store *memstore.Store
	codec *token.Codec
	clock *testClock
}

// newTestServer wires the real router, services, codec and hash pool over an
// in-memory store seeded with the default accounts.
func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	codec, err := token.NewCodec(token.Config{
		Secret: []byte("router-test-secret-0123"),
		TTL:    testTTL,
		Issuer: "procurement-api",
		Now:    clock.Now,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hasher := queue.NewHashPool(2, bcrypt.MinCost, zerolog.Nop())
	hasher.Start(ctx)

	store := memstore.New()
	_, err = service.SeedUsers(ctx, store.Users(), hasher, service.DefaultSeedUsers, zerolog.Nop())
	require.NoError(t, err)

	e := NewRouter(Deps{
		Log:         zerolog.Nop(),
		Production:  production,
		CORSOrigins: []string{testOrigin},
		Auth:       service.NewAuthService(store.Users(), hasher, codec, zerolog.Nop()),
		Users:      service.NewUserService(store.Users(), zerolog.Nop()),
		Projects:   service.NewProjectService(store.Projects()),
		Rotator:    service.NewSecretService(codec, nil, zerolog.Nop()),
		Verifier:   codec,
		Identities: store.Users(),
		Ownership:  store.Projects(),
		Health: map[string]handler.Pinger{
			"memory": handler.PingFunc(func(context.Context) error { return nil }),
		},
		Registry: prometheus.NewRegistry(),
	})

	return &testServer{t: t, e: e, store: store, codec: codec, clock: clock}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Stack   string `json:"stack"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

type userJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func (s *testServer) do(method, path, body, bearer string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

// login returns the token and user of a successful login.
func (s *testServer) login(identifier, password string) (string, userJSON) {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/auth/login",
		`{"identifier":"`+identifier+`","password":"`+password+`"}`, "")
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		User  userJSON `json:"user"`
		Token string   `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token, data.User
}

func (s *testServer) setStatus(adminToken, userID string, active bool) {
	s.t.Helper()
	body := `{"isActive":false}`
	if active {
		body = `{"isActive":true}`
	}
	rec, _ := s.do(http.MethodPut, "/api/users/"+userID+"/status", body, adminToken)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
}

func (s *testServer) setRole(adminToken, userID, role string) {
	s.t.Helper()
	rec, _ := s.do(http.MethodPut, "/api/users/"+userID+"/role", `{"role":"`+role+`"}`, adminToken)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSeededAdminLogin(t *testing.T) {
	s := newTestServer(t, false)

	tok, user := s.login("admin", "admin123")
	assert.Equal(t, "ADMIN", user.Role)

	claims, err := s.codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)

	rec, env := s.do(http.MethodPost, "/api/auth/login", `{"identifier":"admin","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	assert.False(t, env.Success)

	// Email handles are case-insensitive.
	_, user = s.login("Admin@Construction.com", "admin123")
	assert.Equal(t, "admin", user.Username)
}

func TestLoginResponseOmitsPasswordHash(t *testing.T) {
	s := newTestServer(t, false)

	rec, _ := s.do(http.MethodPost, "/api/auth/login", `{"identifier":"staff","password":"staff123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestLoginEnumerationSafety(t *testing.T) {
	s := newTestServer(t, false)

	adminTok, _ := s.login("admin", "admin123")
	_, staff := s.login("staff", "staff123")
	s.setStatus(adminTok, staff.ID, false)

	attempts := []struct {
		name, identifier, password string
	}{
		{"unknown identifier", "ghost", "whatever1"},
		{"wrong password", "manager", "not-the-password"},
		{"inactive identity", "staff", "staff123"},
	}

	var first envelope
	for i, a := range attempts {
		rec, env := s.do(http.MethodPost, "/api/auth/login",
			`{"identifier":"`+a.identifier+`","password":"`+a.password+`"}`, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, a.name)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code, a.name)
		if i == 0 {
			first = env
			continue
		}
		assert.Equal(t, first.Error.Message, env.Error.Message, a.name)
		assert.Equal(t, first.Error.Details, env.Error.Details, a.name)
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	s := newTestServer(t, false)
	issuedAt := s.clock.Now()

	tok, _ := s.login("staff", "staff123")

	s.clock.Set(issuedAt.Add(testTTL - time.Second))
	rec, _ := s.do(http.MethodGet, "/api/auth/me", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.clock.Set(issuedAt.Add(testTTL))
	rec, env := s.do(http.MethodGet, "/api/auth/me", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", env.Error.Code)
}

func TestDeactivationRejectsIssuedToken(t *testing.T) {
	s := newTestServer(t, false)

	adminTok, _ := s.login("admin", "admin123")
	staffTok, staff := s.login("staff", "staff123")

	rec, _ := s.do(http.MethodGet, "/api/auth/me", "", staffTok)
	require.Equal(t, http.StatusOK, rec.Code)

	s.setStatus(adminTok, staff.ID, false)

	_, err := s.codec.Verify(staffTok)
	require.NoError(t, err, "the token itself still verifies")

	rec, env := s.do(http.MethodGet, "/api/auth/me", "", staffTok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)

	// Reactivation restores access with the same token.
	s.setStatus(adminTok, staff.ID, true)
	rec, _ = s.do(http.MethodGet, "/api/auth/me", "", staffTok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGateFollowsRoleMutation(t *testing.T) {
	s := newTestServer(t, false)

	adminTok, _ := s.login("admin", "admin123")
	staffTok, staff := s.login("staff", "staff123")
	path := "/api/users/" + staff.ID + "/status"

	rec, env := s.do(http.MethodPut, path, `{"isActive":true}`, staffTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSION", env.Error.Code)

	s.setRole(adminTok, staff.ID, "ADMIN")

	rec, _ = s.do(http.MethodPut, path, `{"isActive":true}`, staffTok)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRolePresets(t *testing.T) {
	s := newTestServer(t, false)

	adminTok, _ := s.login("admin", "admin123")
	managerTok, _ := s.login("manager", "manager123")
	staffTok, _ := s.login("staff", "staff123")

	tests := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{"admin reads reports", "/api/reports/summary", adminTok, http.StatusOK},
		{"manager denied reports", "/api/reports/summary", managerTok, http.StatusForbidden},
		{"manager lists users", "/api/users", managerTok, http.StatusOK},
		{"staff denied users", "/api/users", staffTok, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(http.MethodGet, tt.path, "", tt.bearer)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestProjectOwnership(t *testing.T) {
	s := newTestServer(t, false)

	adminTok, _ := s.login("admin", "admin123")
	creatorTok, _ := s.login("manager", "manager123")

	rec, _ := s.do(http.MethodPost, "/api/auth/register",
		`{"email":"other@construction.com","username":"othermgr","password":"other123","name":"Other Manager"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	otherTok, other := s.login("othermgr", "other123")
	s.setRole(adminTok, other.ID, "MANAGER")

	rec, env := s.do(http.MethodPost, "/api/projects", `{"code":"PRJ-001","name":"North Tower"}`, creatorTok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var data struct {
		Project struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "PLANNING", data.Project.Status)
	path := "/api/projects/" + data.Project.ID

	rec, env = s.do(http.MethodGet, path, "", otherTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PROJECT_ACCESS_DENIED", env.Error.Code)

	rec, _ = s.do(http.MethodGet, path, "", creatorTok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, path, "", adminTok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/projects/project-404", "", adminTok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, env = s.do(http.MethodPost, "/api/projects", `{"code":"PRJ-001","name":"Duplicate"}`, adminTok)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_ERROR", env.Error.Code)

	rec, env = s.do(http.MethodPost, "/api/projects", `{"code":"PRJ-002","name":"Ghost","managerId":"user-999"}`, adminTok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FOREIGN_KEY_ERROR", env.Error.Code)
}

func TestDuplicateRegistration(t *testing.T) {
	s := newTestServer(t, false)
	users := s.store.Users()

	rec, _ := s.do(http.MethodPost, "/api/auth/register",
		`{"email":"new@construction.com","username":"newbie","password":"secret1","name":"New Hire"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	before := users.Count()

	rec, env := s.do(http.MethodPost, "/api/auth/register",
		`{"email":"NEW@construction.com","username":"someoneelse","password":"secret1","name":"Dup Email"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)
	assert.Equal(t, before, users.Count())

	rec, env = s.do(http.MethodPost, "/api/auth/register",
		`{"email":"fresh@construction.com","username":"newbie","password":"secret1","name":"Dup Username"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USERNAME_EXISTS", env.Error.Code)
	assert.Equal(t, before, users.Count())
}

func TestPasswordChangeRoundTrip(t *testing.T) {
	s := newTestServer(t, false)
	tok, _ := s.login("staff", "staff123")

	rec, env := s.do(http.MethodPut, "/api/auth/change-password",
		`{"currentPassword":"wrong-one","newPassword":"rotated456"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CURRENT_PASSWORD", env.Error.Code)

	rec, _ = s.do(http.MethodPut, "/api/auth/change-password",
		`{"currentPassword":"staff123","newPassword":"rotated456"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = s.do(http.MethodPost, "/api/auth/login", `{"identifier":"staff","password":"staff123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	s.login("staff", "rotated456")
}

func TestProfileUpdateAndRefresh(t *testing.T) {
	s := newTestServer(t, false)
	tok, _ := s.login("manager", "manager123")

	rec, env := s.do(http.MethodPut, "/api/auth/profile", `{"department":"Procurement"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		User struct {
			Name       string `json:"name"`
			Department string `json:"department"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Procurement", data.User.Department)
	assert.Equal(t, "Project Manager", data.User.Name)

	rec, env = s.do(http.MethodPost, "/api/auth/refresh", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	claims, err := s.codec.Verify(refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, "Procurement", claims.Department)

	rec, _ = s.do(http.MethodPost, "/api/auth/logout", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRotateSecretInvalidatesTokens(t *testing.T) {
	s := newTestServer(t, false)
	adminTok, _ := s.login("admin", "admin123")
	staffTok, _ := s.login("staff", "staff123")

	rec, env := s.do(http.MethodPost, "/api/auth/rotate-secret", "", staffTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSION", env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/auth/rotate-secret", "", adminTok)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tok := range []string{adminTok, staffTok} {
		rec, env = s.do(http.MethodGet, "/api/auth/me", "", tok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	}

	fresh, _ := s.login("staff", "staff123")
	rec, _ = s.do(http.MethodGet, "/api/auth/me", "", fresh)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticationFailures(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"no header", "", "MISSING_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"wrong scheme", "Basic YWRtaW46YWRtaW4xMjM=", "INVALID_TOKEN"},
		{"empty bearer", "Bearer ", "MISSING_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)

			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, "/api/auth/me", env.Path)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		s := newTestServer(t, false)
		rec, env := s.do(http.MethodPost, "/api/auth/register",
			`{"email":"not-an-email","username":"ab","password":"123","name":"X"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Message, "email")
	})

	t.Run("unknown route", func(t *testing.T) {
		s := newTestServer(t, false)
		rec, env := s.do(http.MethodGet, "/api/nowhere", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "/api/nowhere", env.Path)
		_, err := time.Parse(time.RFC3339Nano, env.Timestamp)
		assert.NoError(t, err)
	})

	t.Run("method not allowed", func(t *testing.T) {
		s := newTestServer(t, false)
		rec, env := s.do(http.MethodGet, "/api/auth/login", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
	})

	for _, production := range []bool{false, true} {
		name := "panic development"
		if production {
			name = "panic production"
		}
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, production)
			s.e.GET("/boom", func(echo.Context) error { panic("kaboom") })

			rec, env := s.do(http.MethodGet, "/boom", "", "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
			assert.NotContains(t, env.Error.Message, "kaboom")
			if production {
				assert.Empty(t, env.Error.Details)
				assert.Empty(t, env.Error.Stack)
			} else {
				assert.Contains(t, env.Error.Details, "kaboom")
				assert.NotEmpty(t, env.Error.Stack)
			}
		})
	}
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t, true)

	rec, _ := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "procurement_http_requests_total")

	rec, _ = s.do(http.MethodGet, "/swagger/doc.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/auth/login")
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, true)

	for _, path := range []string{"/health", "/api/auth/me"} {
		rec, _ := s.do(http.MethodGet, path, "", "")
		h := rec.Header()
		assert.Equal(t, "nosniff", h.Get(echo.HeaderXContentTypeOptions), path)
		assert.Equal(t, "SAMEORIGIN", h.Get(echo.HeaderXFrameOptions), path)
		assert.Equal(t, "0", h.Get(echo.HeaderXXSSProtection), path)
		assert.Equal(t, "no-referrer", h.Get(echo.HeaderReferrerPolicy), path)
		assert.Contains(t, h.Get(echo.HeaderContentSecurityPolicy), "default-src 'self'", path)
	}

	rec, _ := s.do(http.MethodGet, "/swagger/doc.json", "", "")
	assert.Empty(t, rec.Header().Get(echo.HeaderContentSecurityPolicy))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, false)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		req.Header.Set(echo.HeaderAccessControlRequestHeaders, "Content-Type, Authorization")
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight(testOrigin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPatch)

	rec = preflight("https://evil.example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, testOrigin)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, false)

	big := `{"identifier":"admin","password":"` + strings.Repeat("x", 10<<20) + `"}`
	rec, env := s.do(http.MethodPost, "/api/auth/login", big, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
