package utility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenEI(apiURL string, client *http.Client, ttl time.Duration) *OpenEI {
	return &OpenEI{
		apiURL:   apiURL,
		apiKey:   "test-key",
		cacheTTL: ttl,
		client:   client,
		cache:    make(map[string]cachedPlans),
	}
}

func TestOpenEI(t *testing.T) {
	t.Run("RatePlans_Parsing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "test-key", q.Get("api_key"))
			assert.Equal(t, "123 Main St", q.Get("address"))
			assert.Equal(t, "json", q.Get("format"))
			assert.Equal(t, "latest", q.Get("version"))
			assert.Equal(t, "true", q.Get("approved"))
			assert.Equal(t, "true", q.Get("is_default"))
			assert.Equal(t, "50", q.Get("limit"))
			assert.Equal(t, "full", q.Get("detail"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items": [
				{"label": "a", "name": "Residential", "energyratestructure": [[{"rate": 0.15}]]},
				{"label": "b"}
			]}`))
		}))
		defer ts.Close()

		o := newTestOpenEI(ts.URL, ts.Client(), 0)
		records, err := o.RatePlans(context.Background(), "123 Main St")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0]["label"])
		assert.Equal(t, "Residential", records[0].Name())
	})

	t.Run("Caching", func(t *testing.T) {
		requests := 0
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(`{"items": [{"label": "a"}]}`))
		}))
		defer ts.Close()

		o := newTestOpenEI(ts.URL, ts.Client(), time.Hour)

		_, err := o.RatePlans(context.Background(), "123 Main St")
		require.NoError(t, err)
		assert.Equal(t, 1, requests)

		_, err = o.RatePlans(context.Background(), " 123 main st ")
		require.NoError(t, err)
		assert.Equal(t, 1, requests, "expected cached response")

		_, err = o.RatePlans(context.Background(), "456 Oak Ave")
		require.NoError(t, err)
		assert.Equal(t, 2, requests)
	})

	t.Run("NoCaching", func(t *testing.T) {
		requests := 0
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(`{"items": []}`))
		}))
		defer ts.Close()

		o := newTestOpenEI(ts.URL, ts.Client(), 0)
		for range 2 {
			_, err := o.RatePlans(context.Background(), "123 Main St")
			require.NoError(t, err)
		}
		assert.Equal(t, 2, requests)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			handler http.HandlerFunc
		}{
			{"status", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}},
			{"invalid json", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			}},
			{"api error", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"error": {"message": "bad api key"}}`))
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ts := httptest.NewServer(tt.handler)
				defer ts.Close()

				o := newTestOpenEI(ts.URL, ts.Client(), time.Hour)
				records, err := o.RatePlans(context.Background(), "123 Main St")
				assert.ErrorIs(t, err, ErrRateFetch)
				assert.Nil(t, records)
				assert.Empty(t, o.cache, "failures should not be cached")
			})
		}
	})

	t.Run("Unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		o := newTestOpenEI(ts.URL, &http.Client{Timeout: time.Second}, 0)
		_, err := o.RatePlans(context.Background(), "123 Main St")
		assert.ErrorIs(t, err, ErrRateFetch)
	})

	t.Run("Validate", func(t *testing.T) {
		assert.Error(t, (&OpenEI{}).Validate())
		assert.Error(t, (&OpenEI{apiURL: "https://api.openei.org/utility_rates"}).Validate())
		assert.NoError(t, (&OpenEI{apiURL: "https://api.openei.org/utility_rates", apiKey: "k"}).Validate())
	})
}
