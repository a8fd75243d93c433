// Package countries fetches the destination list shown on the trip creation
// form from the public REST Countries API.
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/diagnosis/tourvisto-admin/internal/cache"
	"github.com/diagnosis/tourvisto-admin/internal/domain"
	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

const cacheKey = "countries:v3.1:all"

type Lister interface {
	List(ctx context.Context) ([]domain.Country, error)
}

type listOptions struct {
	Fields []string `url:"fields,comma"`
}

type apiCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flag   string    `json:"flag"`
	LatLng []float64 `json:"latlng"`
	Maps   struct {
		OpenStreetMaps string `json:"openStreetMaps"`
	} `json:"maps"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Store
	ttl     time.Duration
}

func NewClient(baseURL string, timeout time.Duration, store cache.Store, ttl time.Duration) *Client {
	if store == nil {
		store = cache.NoopStore{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   store,
		ttl:     ttl,
	}
}

// List returns all countries sorted by name. Cache failures are logged and
// fall through to the API.
func (c *Client) List(ctx context.Context) ([]domain.Country, error) {
	if raw, err := c.cache.Get(ctx, cacheKey); err == nil {
		var cached []domain.Country
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.WarnContext(ctx, "Discarding undecodable countries cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.WarnContext(ctx, "Countries cache read failed", "error", err)
	}

	out, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, cacheKey, raw, c.ttl); err != nil {
			logger.WarnContext(ctx, "Countries cache write failed", "error", err)
		}
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.Country, error) {
	v, err := query.Values(listOptions{Fields: []string{"name", "flag", "latlng", "maps"}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode countries query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/all?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("countries request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("countries request failed: status %d", resp.StatusCode)
	}

	var payload []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	out := make([]domain.Country, 0, len(payload))
	for _, p := range payload {
		out = append(out, domain.Country{
			Name:          p.Flag + p.Name.Common,
			Value:         p.Name.Common,
			Coordinates:   p.LatLng,
			OpenStreetMap: p.Maps.OpenStreetMaps,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

var _ Lister = (*Client)(nil)
