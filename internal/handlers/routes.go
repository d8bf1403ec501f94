package handlers

import "github.com/gin-gonic/gin"

// API bundles every handler the server mounts.
type API struct {
	Health        *HealthHandler
	Cases         *CaseHandler
	Stats         *StatsHandler
	PressReleases *PressReleaseHandler
	Sites         *SiteHandler
	Reservations  *ReservationHandler
	Outpatients   *OutpatientHandler
	Export        *ExportHandler
}

// Register mounts the health checks at the root and the read API under
// /api/v1.
func (a *API) Register(router gin.IRouter) {
	router.GET("/health", a.Health.Health)
	router.GET("/health/ready", a.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", a.Health.Info)

		cases := v1.Group("/cases")
		{
			cases.GET("", a.Cases.List)
			cases.GET("/aggregate", a.Cases.Aggregate)
			cases.GET("/by-age", a.Cases.ByAge)
			cases.GET("/reproduction-number", a.Cases.ReproductionNumber)
			cases.GET("/:number", a.Cases.Get)
		}

		counts := v1.Group("/daily-counts")
		{
			counts.GET("", a.Stats.DailyCounts)
			counts.GET("/aggregate", a.Stats.Aggregate)
			counts.GET("/by-age", a.Stats.ByAge)
			counts.GET("/reproduction-number", a.Stats.ReproductionNumber)
		}

		releases := v1.Group("/press-releases")
		{
			releases.GET("", a.PressReleases.List)
			releases.GET("/latest", a.PressReleases.Latest)
		}

		sites := v1.Group("/sites")
		{
			sites.GET("", a.Sites.List)
			sites.GET("/near", a.Sites.Near)
		}

		reservations := v1.Group("/reservations/:campaign")
		{
			reservations.GET("", a.Reservations.List)
			reservations.GET("/near", a.Reservations.Near)
		}

		outpatients := v1.Group("/outpatients")
		{
			outpatients.GET("", a.Outpatients.List)
			outpatients.GET("/near", a.Outpatients.Near)
			outpatients.GET("/:name", a.Outpatients.Get)
		}

		v1.GET("/export/:file", a.Export.Export)
	}
}
