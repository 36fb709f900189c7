package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Geocoder resolves a free-form address to coordinates. Implementations are
// expected to be failure-tolerant collaborators; callers treat errors as
// non-fatal.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

type Config struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	CacheTTL    time.Duration
	CountryHint string
}

// nominatimClient queries a Nominatim-compatible search endpoint. Results are
// cached so repeated profile saves with the same address do not hit the
// upstream service.
type nominatimClient struct {
	baseURL     string
	userAgent   string
	countryHint string
	httpClient  *http.Client
	cache       *gocache.Cache
}

func NewNominatim(cfg Config) Geocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &nominatimClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   cfg.UserAgent,
		countryHint: cfg.CountryHint,
		httpClient:  &http.Client{Timeout: timeout},
		cache:       gocache.New(ttl, 2*ttl),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *nominatimClient) Geocode(ctx context.Context, address string) (float64, float64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, 0, fmt.Errorf("address is empty")
	}

	cacheKey := strings.ToLower(address)
	if cached, ok := c.cache.Get(cacheKey); ok {
		pt := cached.([2]float64)
		return pt[0], pt[1], nil
	}

	query := address
	if c.countryHint != "" && !strings.Contains(strings.ToLower(address), strings.ToLower(c.countryHint)) {
		query = address + ", " + c.countryHint
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build geocode request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode match for %q", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	c.cache.SetDefault(cacheKey, [2]float64{lat, lng})
	return lat, lng, nil
}
