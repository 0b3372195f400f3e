// Common test helpers
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/jiyaaat/Doctor-listings/db/kvdb"
	"github.com/jiyaaat/Doctor-listings/db/searchdb"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
	"github.com/jiyaaat/Doctor-listings/services/feed"
	"github.com/jiyaaat/Doctor-listings/validation"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name           string
	path           string
	queryParams    url.Values
	expectedStatus int
	expectedIDs    []string
	expectedError  string
}

type testResponse[T any] struct {
	Data   T        `json:"data"`
	Errors []string `json:"errors"`
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// setupTestServer serves testdata/doctors.json from a fresh storage directory.
// env overrides are applied before the config is loaded.
func setupTestServer(t *testing.T, assert *require.Assertions, env map[string]string) (*gin.Engine, *directory.Service) {

	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", t.TempDir())
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	source, err := feed.NewSource(testLogger, cfg)
	assert.NoError(err, "could not create feed source")

	ctx, cancel := context.WithCancel(context.Background())
	service := directory.New(ctx, testLogger, source, kvDB, searchDB, cfg.GetRefreshInterval())
	if err := service.Load(ctx); err != nil {
		testLogger.Warn("test server starting without doctors", "err", err.Error())
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupDoctors(router, testLogger, service, validator)
	SetupSuggestions(router, testLogger, service, validator)
	SetupSearch(router, testLogger, service, validator)
	SetupRefresh(router, testLogger, service)

	t.Cleanup(func() {
		cancel()
		assert.NoError(service.Close(), "could not close feed source")
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return router, service
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, queryParams url.Values) *httptest.ResponseRecorder {

	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?" + queryParams.Encode()
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint)

	req, err := http.NewRequest(method, endpoint, nil)
	assert.NoError(err)

	router.ServeHTTP(w, req)

	return w
}

func decodeTestResponse[T any](assert *require.Assertions, w *httptest.ResponseRecorder) testResponse[T] {
	var body testResponse[T]
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &body), "could not unmarshal response: %s", w.Body.String())
	return body
}

func doctorIDs(doctors []directory.Doctor) []string {
	ids := make([]string, 0, len(doctors))
	for _, doctor := range doctors {
		ids = append(ids, doctor.ID)
	}
	return ids
}
