//go:build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/panshun/climbstory-backend/internal/adapter/postgres"
	"github.com/panshun/climbstory-backend/internal/adapter/postgres/biography"
	"github.com/panshun/climbstory-backend/internal/adapter/postgres/promptstate"
	"github.com/panshun/climbstory-backend/internal/adapter/postgres/testhelper"
	authpkg "github.com/panshun/climbstory-backend/internal/auth"
	"github.com/panshun/climbstory-backend/internal/domain"
	"github.com/panshun/climbstory-backend/internal/service/prompt"
	"github.com/panshun/climbstory-backend/internal/transport/middleware"
	"github.com/panshun/climbstory-backend/internal/transport/rest"
)

const testJWTSecret = "e2e-test-secret-at-least-32-chars-long!!"

// testServer wraps the full-stack HTTP server for E2E tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.JWTManager
}

// setupTestServer builds the whole stack on a shared test database:
// repositories, prompt service, JWT auth, middleware chain, and router.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := prompt.NewService(
		logger,
		biography.New(pool),
		promptstate.New(pool),
		postgres.NewTxManager(pool),
		domain.DefaultStoryCatalog(),
		prompt.Config{
			MinGapBetweenPrompts: 12 * time.Hour,
			MaxPromptsPerWeek:    14,
			CooldownAfterDismiss: 24 * time.Hour,
			MaxDismissCount:      10,
			EasyFields:           []string{"funny_moment", "favorite_spot"},
			CategoryOrder: []domain.FieldCategory{
				domain.CategoryGrowth, domain.CategoryPsychology, domain.CategoryCommunity,
				domain.CategoryPractical, domain.CategoryDreams, domain.CategoryLife,
			},
		},
	)
	require.NoError(t, err)

	jwt := authpkg.NewJWTManager(testJWTSecret, "climbstory-e2e", 15*time.Minute)

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rateLimiter.Stop)

	router := rest.NewRouter(
		rest.NewPromptsHandler(svc, logger),
		rest.NewHealthHandler(pool, "e2e"),
		middleware.Auth(jwt),
		rateLimiter.Limit(1000),
	)
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
	)(router)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testServer{
		URL:    server.URL,
		Client: server.Client(),
		Pool:   pool,
		jwt:    jwt,
	}
}

// createSubject seeds a biography and returns the subject ID with a valid
// bearer token for it.
func createSubject(t *testing.T, ts *testServer) (uuid.UUID, string) {
	t.Helper()
	subjectID, _ := testhelper.SeedBiography(t, ts.Pool)
	token, err := ts.jwt.GenerateAccessToken(subjectID)
	require.NoError(t, err)
	return subjectID, token
}

// request performs an HTTP request against the test server and decodes the
// JSON response body into a generic map.
func (ts *testServer) request(t *testing.T, method, path, token string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && err != io.EOF {
		t.Fatalf("decode response body: %v", err)
	}

	return resp.StatusCode, body
}
