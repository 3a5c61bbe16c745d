package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipemanager/recipe-server/internal/config"
	"github.com/recipemanager/recipe-server/internal/ratelimit"
	"github.com/recipemanager/recipe-server/internal/service"
	"github.com/recipemanager/recipe-server/internal/store/sqlite"
)

// testServer wraps the API server for testing.
type testServer struct {
	*Server
	api     humatest.TestAPI
	db      *sqlite.Store
	cleanup func()
}

// testOption adjusts the test configuration or limiter before the server is built.
type testOption func(cfg *config.Config, limiter **ratelimit.KeyedRateLimiter)

func withPageSize(n int) testOption {
	return func(cfg *config.Config, _ **ratelimit.KeyedRateLimiter) {
		cfg.Recipes.PageSize = n
	}
}

func withFrontendDir(dir string) testOption {
	return func(cfg *config.Config, _ **ratelimit.KeyedRateLimiter) {
		cfg.Server.FrontendDir = dir
	}
}

func withRateLimit(rps float64, burst int) testOption {
	return func(_ *config.Config, limiter **ratelimit.KeyedRateLimiter) {
		*limiter = ratelimit.New(rps, burst, time.Minute)
	}
}

// setupTestServer creates a test server backed by a temporary SQLite store.
func setupTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "recipes-api-test-*")
	require.NoError(t, err)

	// Create a no-op logger for tests (discards all logs).
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)

	cfg := &config.Config{
		CORS:    config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		Recipes: config.RecipesConfig{PageSize: 100},
	}
	var limiter *ratelimit.KeyedRateLimiter
	for _, opt := range opts {
		opt(cfg, &limiter)
	}

	services := &Services{
		Recipe: service.NewRecipeService(st, cfg.Recipes.PageSize, logger),
		User:   service.NewUserService(st, logger),
		Tag:    service.NewTagService(st, logger),
	}

	s := NewServer(cfg, st, services, limiter, logger)

	cleanup := func() {
		if limiter != nil {
			limiter.Stop()
		}
		_ = st.Close()           //nolint:errcheck // Cleanup function, nothing to report
		_ = os.RemoveAll(tmpDir) //nolint:errcheck // Cleanup function, nothing to report
	}

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		db:      st,
		cleanup: cleanup,
	}
}

// apiErrorBody mirrors APIError on the wire.
type apiErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func recipePath(id int64) string {
	return "/recipes/" + strconv.FormatInt(id, 10)
}

func pastaBody() map[string]any {
	return map[string]any{
		"title":        "Test Pasta",
		"ingredients":  "pasta, tomato sauce, cheese",
		"instructions": "1. Boil pasta 2. Add sauce 3. Add cheese",
		"cuisine":      "Italian",
		"meal_type":    "dinner",
	}
}

// createRecipe posts a recipe and returns the decoded response.
func (ts *testServer) createRecipe(t *testing.T, body map[string]any) RecipeResponse {
	t.Helper()
	resp := ts.api.Post("/recipes/", body)
	require.Equal(t, http.StatusCreated, resp.Code, "create failed: %s", resp.Body.String())
	return decode[RecipeResponse](t, resp.Body.Bytes())
}

func TestRoot_WelcomeMessage(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)

	msg := decode[MessageResponse](t, resp.Body.Bytes())
	assert.Contains(t, msg.Message, "Welcome to Recipe Manager API")
}

func TestRecipeLifecycle_EndToEnd(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	created := ts.createRecipe(t, pastaBody())
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Test Pasta", created.Title)

	path := recipePath(created.ID)

	resp := ts.api.Get(path)
	require.Equal(t, http.StatusOK, resp.Code)
	fetched := decode[RecipeResponse](t, resp.Body.Bytes())
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Ingredients, fetched.Ingredients)
	require.NotNil(t, fetched.Cuisine)
	assert.Equal(t, "Italian", *fetched.Cuisine)

	update := pastaBody()
	update["title"] = "Updated Recipe"
	resp = ts.api.Put(path, update)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "Updated Recipe", decode[RecipeResponse](t, resp.Body.Bytes()).Title)

	resp = ts.api.Delete(path)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, decode[MessageResponse](t, resp.Body.Bytes()).Message, "deleted successfully")

	resp = ts.api.Get(path)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRequestID_Header(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	assert.True(t, strings.HasPrefix(resp.Header().Get(requestIDHeader), "req_"))

	resp = ts.api.Get("/health", requestIDHeader+": client-supplied")
	assert.Equal(t, "client-supplied", resp.Header().Get(requestIDHeader))
}

func TestCORS_Preflight(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Do(http.MethodOptions, "/recipes/",
		"Origin: http://localhost:3000",
		"Access-Control-Request-Method: POST",
	)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))

	resp = ts.api.Do(http.MethodOptions, "/recipes/",
		"Origin: http://evil.example",
		"Access-Control-Request-Method: POST",
	)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.api.Get("/recipes/")

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "recipes_http_requests_total")
	assert.Contains(t, body, `route="/recipes/"`)
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, withRateLimit(0.001, 1))
	defer ts.cleanup()

	resp := ts.api.Get("/recipes/")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/recipes/")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decode[apiErrorBody](t, resp.Body.Bytes()).Code)

	// Probes are exempt.
	for range 3 {
		assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
	}

	// Another client has its own budget.
	resp = ts.api.Get("/recipes/", "X-Forwarded-For: 203.0.113.9")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestFrontend_SPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "main.js"), []byte("console.log(1)"), 0o644))

	ts := setupTestServer(t, withFrontendDir(dir))
	defer ts.cleanup()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"root serves index", "/", http.StatusOK, "<html>app</html>"},
		{"client route falls back", "/about/team", http.StatusOK, "<html>app</html>"},
		{"asset served", "/static/main.js", http.StatusOK, "console.log(1)"},
		{"unknown api path", "/recipes/1/extra", http.StatusNotFound, "NOT_FOUND"},
		{"api still routed", "/recipes/", http.StatusOK, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestFrontend_MissingDirKeepsRoot(t *testing.T) {
	ts := setupTestServer(t, withFrontendDir(filepath.Join(t.TempDir(), "nope")))
	defer ts.cleanup()

	resp := ts.api.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Welcome")
}
