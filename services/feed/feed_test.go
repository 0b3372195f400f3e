package feed_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/jiyaaat/Doctor-listings/services/feed"
	"github.com/stretchr/testify/require"
)

const feedFixture = `[
	{"id": "1", "name": "Dr. One", "fees": "₹ 100", "experience": "3 Years of experience", "specialities": [{"name": "Dentist"}], "video_consult": true},
	{"id": "", "name": "Dr. Nobody"},
	{"id": "2", "name": "Dr. Two", "clinic": {"name": "Two Clinic", "address": {"city": "Pune"}}, "in_clinic": true},
	{"id": "1", "name": "Dr. One Again"}
]`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestHTTPSourceFetch(t *testing.T) {
	t.Run("decodes doctors and drops invalid records", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(feedFixture))
		}))
		defer server.Close()

		source := feed.NewHTTPSource(server.URL, newTestLogger())
		defer source.Close()

		doctors, err := source.Fetch(context.Background())
		assert.NoError(err)
		assert.Len(doctors, 2)
		assert.Equal("Dr. One", doctors[0].Name, "the first record with a duplicate id should win")
		assert.Equal("Dentist", doctors[0].Specialities[0].Name)
		assert.True(doctors[0].VideoConsult)
		assert.Equal("Pune", doctors[1].Clinic.Address.City)
		assert.True(doctors[1].InClinic)
	})

	t.Run("returns error for non-200 status codes", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := feed.NewHTTPSource(server.URL, newTestLogger()).Fetch(context.Background())
		assert.Error(err)
		assert.Contains(err.Error(), "404")
	})

	t.Run("returns error for malformed json", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"doctors": `))
		}))
		defer server.Close()

		_, err := feed.NewHTTPSource(server.URL, newTestLogger()).Fetch(context.Background())
		assert.Error(err)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		source := feed.NewHTTPSource(server.URL, newTestLogger(), feed.WithTimeout(10*time.Millisecond))
		_, err := source.Fetch(context.Background())
		assert.Error(err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := feed.NewHTTPSource(server.URL, newTestLogger(), feed.WithClient(server.Client())).Fetch(ctx)
		assert.Error(err)
	})
}

func TestFileSourceFetch(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "doctors.json")
	assert.NoError(os.WriteFile(path, []byte(feedFixture), 0644))

	doctors, err := feed.NewFileSource(path, newTestLogger()).Fetch(context.Background())
	assert.NoError(err)
	assert.Len(doctors, 2)

	_, err = feed.NewFileSource(filepath.Join(t.TempDir(), "missing.json"), newTestLogger()).Fetch(context.Background())
	assert.Error(err)
}

func TestLoggingSourceFetch(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "doctors.json")
	assert.NoError(os.WriteFile(path, []byte(feedFixture), 0644))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	source := feed.NewLoggingSource(feed.NewFileSource(path, logger), path, logger)

	_, err := source.Fetch(context.Background())
	assert.NoError(err)
	assert.Contains(buf.String(), "doctors=2")
	assert.Contains(buf.String(), "duration=")
}

func TestNewSource(t *testing.T) {
	t.Run("uses the configured file", func(t *testing.T) {
		assert := require.New(t)
		t.Setenv("ENV", "test")

		cfg, err := config.Load()
		assert.NoError(err)

		source, err := feed.NewSource(newTestLogger(), cfg)
		assert.NoError(err)

		doctors, err := source.Fetch(context.Background())
		assert.NoError(err)
		assert.Len(doctors, 6)
	})

	t.Run("prefers the configured url", func(t *testing.T) {
		assert := require.New(t)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(feedFixture))
		}))
		defer server.Close()

		t.Setenv("ENV", "test")
		t.Setenv("FEED_URL", server.URL)

		cfg, err := config.Load()
		assert.NoError(err)

		source, err := feed.NewSource(newTestLogger(), cfg)
		assert.NoError(err)

		doctors, err := source.Fetch(context.Background())
		assert.NoError(err)
		assert.Len(doctors, 2)
	})
}
