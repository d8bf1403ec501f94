package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/middleware"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// SiteQuery filters vaccination sites.
type SiteQuery struct {
	Area string `form:"area"`
	Age  string `form:"age" binding:"omitempty,oneof=16歳以上 12歳から15歳まで"`
}

func (q SiteQuery) filter() services.SiteFilter {
	return services.SiteFilter{Area: q.Area, TargetAgeGroup: q.Age}
}

// SiteNearQuery is a near search over vaccination sites.
type SiteNearQuery struct {
	NearQuery
	SiteQuery
}

// OutpatientQuery filters fever outpatient clinics.
type OutpatientQuery struct {
	Pediatrics bool `form:"pediatrics"`
	NotFamily  bool `form:"not_family"`
}

func (q OutpatientQuery) filter() repository.OutpatientFilter {
	return repository.OutpatientFilter{Pediatrics: q.Pediatrics, NotFamily: q.NotFamily}
}

// OutpatientNearQuery is a near search over fever outpatient clinics.
type OutpatientNearQuery struct {
	NearQuery
	OutpatientQuery
}

// AreaQuery narrows reservation statuses to one area.
type AreaQuery struct {
	Area string `form:"area"`
}

func logNear(c *gin.Context, kind string, q NearQuery) {
	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing near request", map[string]interface{}{
			"kind": kind,
			"lat":  q.Lat,
			"lng":  q.Lng,
			"k":    q.K,
		})
	}
}

// SiteHandler serves vaccination sites.
type SiteHandler struct {
	service services.SiteService
}

// NewSiteHandler creates a new SiteHandler instance.
func NewSiteHandler(service services.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// List handles GET /api/v1/sites.
func (h *SiteHandler) List(c *gin.Context) {
	var req SiteQuery
	if !bindQuery(c, &req) {
		return
	}

	sites, err := h.service.List(c.Request.Context(), req.filter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(sites))
}

// Near handles GET /api/v1/sites/near.
func (h *SiteHandler) Near(c *gin.Context) {
	var req SiteNearQuery
	if !bindQuery(c, &req) {
		return
	}
	logNear(c, "sites", req.NearQuery)

	ranked, err := h.service.Near(c.Request.Context(), req.origin(), req.K, req.filter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(ranked))
}

// ReservationHandler serves reservation statuses per campaign.
type ReservationHandler struct {
	service services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler instance.
func NewReservationHandler(service services.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// List handles GET /api/v1/reservations/:campaign.
func (h *ReservationHandler) List(c *gin.Context) {
	var req AreaQuery
	if !bindQuery(c, &req) {
		return
	}

	statuses, err := h.service.List(c.Request.Context(), c.Param("campaign"), req.Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(statuses))
}

// Near handles GET /api/v1/reservations/:campaign/near.
func (h *ReservationHandler) Near(c *gin.Context) {
	var req NearQuery
	if !bindQuery(c, &req) {
		return
	}
	logNear(c, "reservations", req)

	ranked, err := h.service.Near(c.Request.Context(), c.Param("campaign"), req.origin(), req.K)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(ranked))
}

// OutpatientHandler serves fever outpatient clinics.
type OutpatientHandler struct {
	service services.OutpatientService
}

// NewOutpatientHandler creates a new OutpatientHandler instance.
func NewOutpatientHandler(service services.OutpatientService) *OutpatientHandler {
	return &OutpatientHandler{service: service}
}

// List handles GET /api/v1/outpatients.
func (h *OutpatientHandler) List(c *gin.Context) {
	var req OutpatientQuery
	if !bindQuery(c, &req) {
		return
	}

	outpatients, err := h.service.List(c.Request.Context(), req.filter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(outpatients))
}

// Get handles GET /api/v1/outpatients/:name.
func (h *OutpatientHandler) Get(c *gin.Context) {
	outpatient, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outpatient)
}

// Near handles GET /api/v1/outpatients/near.
func (h *OutpatientHandler) Near(c *gin.Context) {
	var req OutpatientNearQuery
	if !bindQuery(c, &req) {
		return
	}
	logNear(c, "outpatients", req.NearQuery)

	ranked, err := h.service.Near(c.Request.Context(), req.origin(), req.K, req.filter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOf(ranked))
}
