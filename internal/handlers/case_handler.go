package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/middleware"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// CaseHandler serves the individual case records the city published until
// it switched to daily per-age counts.
type CaseHandler struct {
	service services.CaseService
}

// NewCaseHandler creates a new CaseHandler instance.
func NewCaseHandler(service services.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// PageQuery selects one page of a listing. Zero means the first page.
type PageQuery struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// ReproductionResponse is the estimated effective reproduction number.
type ReproductionResponse struct {
	Date  string  `json:"date,omitempty"`
	Value float64 `json:"value"`
}

// List handles GET /api/v1/cases.
func (h *CaseHandler) List(c *gin.Context) {
	var req PageQuery
	if !bindQuery(c, &req) {
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	page, err := h.service.ListCases(c.Request.Context(), req.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/v1/cases/:number.
func (h *CaseHandler) Get(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		apierrors.BadRequest(c, "case number must be a positive integer", map[string]interface{}{
			"number": c.Param("number"),
		})
		return
	}

	record, err := h.service.GetCase(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Aggregate handles GET /api/v1/cases/aggregate.
func (h *CaseHandler) Aggregate(c *gin.Context) {
	var req AggregateQuery
	if !bindQuery(c, &req) {
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Aggregating cases", map[string]interface{}{
			"series": req.Series,
			"unit":   req.Unit,
			"from":   req.From,
			"to":     req.To,
		})
	}

	resp, ok, err := buildSeries(c.Request.Context(), h.service, req)
	if !ok {
		apierrors.BadRequest(c, "series is not available for cases", map[string]interface{}{
			"series": req.Series,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByAge handles GET /api/v1/cases/by-age.
func (h *CaseHandler) ByAge(c *gin.Context) {
	counts, err := h.service.CountByAge(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(counts))
}

// ReproductionNumber handles GET /api/v1/cases/reproduction-number.
func (h *CaseHandler) ReproductionNumber(c *gin.Context) {
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
