package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

func testHTTPConfig(location string) *Config {
	config := DefaultConfig()
	config.Location = location
	config.MaxRetries = 2
	config.RetryWaitMin = time.Millisecond
	config.RetryWaitMax = 5 * time.Millisecond
	config.Timeout = 2 * time.Second
	config.CacheSize = 0
	return config
}

func TestHTTPSourceFetchSortsItems(t *testing.T) {
	var gotDate, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"time": "12:00", "title": "C"},
			{"time": "10:00", "title": "A"},
			{"time": "11:00", "title": "B"},
		})
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL+"/festival/"), zerolog.Nop())
	require.NoError(t, err)

	items, err := src.FetchItems(context.Background(), "2025-05-20")
	require.NoError(t, err)

	assert.Equal(t, "/festival/api/timetable", gotPath)
	assert.Equal(t, "2025-05-20", gotDate)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{items[0].Title, items[1].Title, items[2].Title})
}

func TestHTTPSourceEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	items, err := src.FetchItems(context.Background(), "2025-05-20")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"time":"09:00","title":"Open"}]`))
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	items, err := src.FetchItems(context.Background(), "2025-05-20")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPSourceClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid date"}`))
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	_, err = src.FetchItems(context.Background(), "2025-05-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid date")
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestHTTPSourceGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	_, err = src.FetchItems(context.Background(), "2025-05-20")
	assert.Error(t, err)
}

func TestHTTPSourceMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"time":"late","title":"x"}]`))
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	_, err = src.FetchItems(context.Background(), "2025-05-20")
	assert.Error(t, err)
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	src, err := NewHTTPSource(testHTTPConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = src.FetchItems(ctx, core.Date("2025-05-20"))
	assert.Error(t, err)
}
