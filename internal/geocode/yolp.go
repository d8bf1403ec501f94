// Package geocode resolves institution names to coordinates with the
// Yahoo! Open Local Platform local search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/metrics"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

// Search restrictions: Asahikawa city and the hospital/clinic industry code.
const (
	cityCode     = "01204"
	industryCode = "0401"
	source       = "yolp"
)

// Geocoder resolves an institution name to a location. A search without
// results yields a pending-review location rather than an error.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (models.Location, error)
}

// Options configures the YOLP client.
type Options struct {
	AppID   string
	BaseURL string
	Timeout time.Duration
	// Interval is the minimum pause between two requests.
	Interval time.Duration
}

type yolp struct {
	http     *resty.Client
	baseURL  string
	appID    string
	interval time.Duration
	clock    clockwork.Clock
	metrics  *metrics.Metrics
	log      *logger.Logger

	mu   sync.Mutex
	last time.Time
}

// NewYOLP creates a Geocoder backed by the local search API.
func NewYOLP(opts Options, clock clockwork.Clock, m *metrics.Metrics, log *logger.Logger) Geocoder {
	rc := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	return &yolp{
		http:     rc,
		baseURL:  opts.BaseURL,
		appID:    opts.AppID,
		interval: opts.Interval,
		clock:    clock,
		metrics:  m,
		log:      log.WithSource(source),
	}
}

type searchResponse struct {
	ResultInfo *struct {
		Count int `json:"Count"`
	} `json:"ResultInfo"`
	Feature []struct {
		Name     string `json:"Name"`
		Geometry struct {
			Coordinates string `json:"Coordinates"`
		} `json:"Geometry"`
	} `json:"Feature"`
}

func (g *yolp) Geocode(ctx context.Context, name string) (models.Location, error) {
	if g.appID == "" {
		return models.Location{}, fmt.Errorf("geocode %q: YOLP app id is not configured", name)
	}
	if err := g.wait(ctx); err != nil {
		return models.Location{}, err
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"appid":  g.appID,
			"query":  name,
			"ac":     cityCode,
			"gc":     industryCode,
			"sort":   "-match",
			"detail": "simple",
			"output": "json",
		}).
		Get(g.baseURL)
	if err != nil {
		g.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return models.Location{}, &apierrors.DownloadError{URL: g.baseURL, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		g.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return models.Location{}, &apierrors.DownloadError{URL: g.baseURL, StatusCode: resp.StatusCode()}
	}

	loc, err := parseSearch(name, resp.Body())
	if err != nil {
		g.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return models.Location{}, err
	}

	if loc.Status == models.LocationPendingReview {
		g.metrics.GeocodeRequests.WithLabelValues("pending").Inc()
		g.log.Warn("No local search result, location pending review", map[string]interface{}{
			"name": name,
		})
		return loc, nil
	}
	g.metrics.GeocodeRequests.WithLabelValues("resolved").Inc()
	return loc, nil
}

// wait blocks until interval has passed since the previous request.
func (g *yolp) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() {
		if d := g.interval - g.clock.Since(g.last); d > 0 {
			select {
			case <-g.clock.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	g.last = g.clock.Now()
	return nil
}

// parseSearch reads the best match from a local search response.
func parseSearch(name string, body []byte) (models.Location, error) {
	var res searchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return models.Location{}, &apierrors.ExtractionError{Source: source, Reason: fmt.Sprintf("decode response: %v", err)}
	}
	if res.ResultInfo == nil {
		return models.Location{}, &apierrors.ExtractionError{Source: source, Reason: "response has no ResultInfo"}
	}
	if res.ResultInfo.Count == 0 || len(res.Feature) == 0 {
		return models.PendingLocation(name), nil
	}

	lng, lat, err := parseCoordinates(res.Feature[0].Geometry.Coordinates)
	if err != nil {
		return models.Location{}, &apierrors.ExtractionError{Source: source, Reason: err.Error()}
	}
	return models.NewLocation(name, lat, lng, models.LocationResolved), nil
}

// parseCoordinates splits "lng,lat".
func parseCoordinates(s string) (lng, lat float64, err error) {
	lngText, latText, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed coordinates %q", s)
	}
	if lng, err = strconv.ParseFloat(strings.TrimSpace(lngText), 64); err != nil {
		return 0, 0, fmt.Errorf("malformed longitude %q", lngText)
	}
	if lat, err = strconv.ParseFloat(strings.TrimSpace(latText), 64); err != nil {
		return 0, 0, fmt.Errorf("malformed latitude %q", latText)
	}
	return lng, lat, nil
}
