package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// StatsHandler serves the per-age daily counts and the Sapporo comparison.
type StatsHandler struct {
	service services.StatsService
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(service services.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// DailyCounts handles GET /api/v1/daily-counts.
func (h *StatsHandler) DailyCounts(c *gin.Context) {
	var req RangeQuery
	if !bindQuery(c, &req) {
		return
	}
	from, to := req.bounds()

	counts, err := h.service.DailyCounts(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(counts))
}

// Aggregate handles GET /api/v1/daily-counts/aggregate.
func (h *StatsHandler) Aggregate(c *gin.Context) {
	var req AggregateQuery
	if !bindQuery(c, &req) {
		return
	}

	if req.Series == SeriesSapporoPerHundredK {
		from, to := req.bounds()
		rates, err := h.service.SapporoPerHundredThousand(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, SeriesResponse{
			Series: req.Series,
			Unit:   string(services.UnitWeek),
			From:   req.From,
			To:     req.To,
			Rates:  rates,
		})
		return
	}

	resp, _, err := buildSeries(c.Request.Context(), h.service, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByAge handles GET /api/v1/daily-counts/by-age.
func (h *StatsHandler) ByAge(c *gin.Context) {
	var req RangeQuery
	if !bindQuery(c, &req) {
		return
	}
	from, to := req.bounds()

	counts, err := h.service.CountByAge(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(counts))
}

// ReproductionNumber handles GET /api/v1/daily-counts/reproduction-number.
func (h *StatsHandler) ReproductionNumber(c *gin.Context) {
	var req DateQuery
	if !bindQuery(c, &req) {
		return
	}

	value, err := h.service.ReproductionNumber(c.Request.Context(), req.day())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ReproductionResponse{Date: req.Date, Value: value})
}
