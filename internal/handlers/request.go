package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// Series names accepted by the aggregate endpoints.
const (
	SeriesCount              = "count"
	SeriesCumulative         = "cumulative"
	SeriesMovingAverage      = "moving-average"
	SeriesPerHundredK        = "per-100k"
	SeriesSapporoPerHundredK = "sapporo-per-100k"
)

// RangeQuery is a half-open [from, to) date range.
type RangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

func (q RangeQuery) bounds() (time.Time, time.Time) {
	from, _ := time.Parse(time.DateOnly, q.From)
	to, _ := time.Parse(time.DateOnly, q.To)
	return from, to
}

// AggregateQuery selects one series over a date range. Unit only applies to
// the count series; cumulative is monthly and the rates are weekly.
type AggregateQuery struct {
	RangeQuery
	Unit   string `form:"unit" binding:"omitempty,oneof=day week month"`
	Series string `form:"series" binding:"omitempty,oneof=count cumulative moving-average per-100k sapporo-per-100k"`
}

// NearQuery is the origin and result count of a near search.
type NearQuery struct {
	Lat float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng float64 `form:"lng" binding:"required,min=-180,max=180"`
	K   int     `form:"k" binding:"omitempty,min=1,max=50"`
}

func (q NearQuery) origin() models.Point {
	return models.Point{Latitude: q.Lat, Longitude: q.Lng}
}

// DateQuery is an optional single day.
type DateQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

func (q DateQuery) day() time.Time {
	if q.Date == "" {
		return time.Time{}
	}
	d, _ := time.Parse(time.DateOnly, q.Date)
	return d
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}

// SeriesResponse carries either buckets or rates depending on the series.
type SeriesResponse struct {
	Series  string            `json:"series"`
	Unit    string            `json:"unit"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Buckets []services.Bucket `json:"buckets,omitempty"`
	Rates   []services.Rate   `json:"rates,omitempty"`
}

// seriesSource is implemented by both the case and the daily count services.
type seriesSource interface {
	Aggregate(ctx context.Context, unit services.Unit, from, to time.Time) ([]services.Bucket, error)
	CumulativeByMonth(ctx context.Context, from, to time.Time) ([]services.Bucket, error)
	MovingAverage(ctx context.Context, from, to time.Time) ([]services.Rate, error)
	PerHundredThousand(ctx context.Context, from, to time.Time) ([]services.Rate, error)
}

// buildSeries resolves q against src. ok is false when the series is not
// served by src.
func buildSeries(ctx context.Context, src seriesSource, q AggregateQuery) (resp SeriesResponse, ok bool, err error) {
	from, to := q.bounds()
	resp = SeriesResponse{Series: q.Series, Unit: q.Unit, From: q.From, To: q.To}
	if resp.Series == "" {
		resp.Series = SeriesCount
	}
	if resp.Unit == "" {
		resp.Unit = string(services.UnitDay)
	}

	switch resp.Series {
	case SeriesCount:
		resp.Buckets, err = src.Aggregate(ctx, services.Unit(resp.Unit), from, to)
	case SeriesCumulative:
		resp.Unit = string(services.UnitMonth)
		resp.Buckets, err = src.CumulativeByMonth(ctx, from, to)
	case SeriesMovingAverage:
		resp.Unit = string(services.UnitWeek)
		resp.Rates, err = src.MovingAverage(ctx, from, to)
	case SeriesPerHundredK:
		resp.Unit = string(services.UnitWeek)
		resp.Rates, err = src.PerHundredThousand(ctx, from, to)
	default:
		return resp, false, nil
	}
	return resp, true, err
}

// bindQuery binds and validates the query string into req, writing the 400
// response itself when that fails.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationFailed(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return false
	}
	return true
}

// badRequests are service errors caused by the caller's input.
var badRequests = []error{
	services.ErrInvalidPage,
	services.ErrInvalidUnit,
	services.ErrInvalidRange,
	services.ErrInvalidCoordinates,
	services.ErrInvalidK,
	services.ErrUnknownCampaign,
}

// respondError maps a service error to its response.
func respondError(c *gin.Context, err error) {
	for _, target := range badRequests {
		if errors.Is(err, target) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
	}
	if errors.Is(err, services.ErrUnknownDataset) {
		apierrors.NotFound(c, err.Error())
		return
	}
	apierrors.FromService(c, err)
}
