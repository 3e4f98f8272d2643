package utility

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/ratecast/ratecast/pkg/common"
	"github.com/ratecast/ratecast/pkg/log"
	"github.com/ratecast/ratecast/pkg/types"
)

// OpenEI fetches rate plans from the OpenEI utility rate database.
type OpenEI struct {
	apiURL   string
	apiKey   string
	cacheTTL time.Duration
	client   *http.Client

	mu    sync.Mutex
	cache map[string]cachedPlans
}

type cachedPlans struct {
	fetched time.Time
	records []types.RawRatePlanRecord
}

// configuredOpenEI sets up flags for OpenEI and returns the instance.
func configuredOpenEI() *OpenEI {
	o := &OpenEI{
		client: common.HTTPClient(10 * time.Second),
		cache:  make(map[string]cachedPlans),
	}
	apiURL := lflag.String("openei-api-url", "https://api.openei.org/utility_rates", "URL for the OpenEI utility rates API")
	apiKey := lflag.String("openei-api-key", "", "API key for OpenEI")
	cacheTTL := lflag.Duration("openei-cache-ttl", time.Hour, "How long to cache rate plans for an address (0 disables caching)")

	lflag.Do(func() {
		o.apiURL = *apiURL
		o.apiKey = *apiKey
		o.cacheTTL = *cacheTTL
	})

	return o
}

// Validate ensures the configuration is valid.
func (o *OpenEI) Validate() error {
	if o.apiURL == "" {
		return fmt.Errorf("openei-api-url is required")
	}
	if _, err := url.Parse(o.apiURL); err != nil {
		return fmt.Errorf("failed to parse openei url (%s): %w", o.apiURL, err)
	}
	if o.apiKey == "" {
		return fmt.Errorf("openei-api-key is required")
	}
	return nil
}

// RatePlans implements Provider. Successful responses are cached per address.
func (o *OpenEI) RatePlans(ctx context.Context, address string) ([]types.RawRatePlanRecord, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	now := time.Now()

	o.mu.Lock()
	if c, ok := o.cache[key]; ok && o.cacheTTL > 0 && now.Sub(c.fetched) < o.cacheTTL {
		records := c.records
		o.mu.Unlock()
		log.Ctx(ctx).DebugContext(ctx, "using cached rate plans", slog.Int("count", len(records)))
		return records, nil
	}
	o.mu.Unlock()

	records, err := o.fetch(ctx, address)
	if err != nil {
		return nil, err
	}

	if o.cacheTTL > 0 {
		o.mu.Lock()
		// drop anything expired so the cache doesn't grow with every address
		for k, c := range o.cache {
			if now.Sub(c.fetched) >= o.cacheTTL {
				delete(o.cache, k)
			}
		}
		o.cache[key] = cachedPlans{fetched: now, records: records}
		o.mu.Unlock()
	}
	return records, nil
}

func (o *OpenEI) fetch(ctx context.Context, address string) ([]types.RawRatePlanRecord, error) {
	u, err := url.Parse(o.apiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid api url: %w", ErrRateFetch, err)
	}

	params := url.Values{}
	params.Set("api_key", o.apiKey)
	params.Set("address", address)
	params.Set("format", "json")
	params.Set("version", "latest")
	params.Set("approved", "true")
	params.Set("is_default", "true")
	params.Set("limit", "50")
	params.Set("detail", "full")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrRateFetch, err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching rate plans from openei", slog.String("address", address))

	resp, err := o.client.Do(req)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch rate plans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrRateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: openei api returned status: %d", ErrRateFetch, resp.StatusCode)
	}

	var data directoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to decode openei response", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrRateFetch, err)
	}
	if data.Error != nil {
		return nil, fmt.Errorf("%w: openei api error: %s", ErrRateFetch, data.Error.Message)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetched rate plans", slog.Int("count", len(data.Items)))
	return data.Items, nil
}
