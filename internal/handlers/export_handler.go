package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

const csvContentType = "text/csv; charset=utf-8"

// ExportHandler serves datasets as open-data CSV files.
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new ExportHandler instance.
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export handles GET /api/v1/export/:file where file is "<dataset>.csv".
// The body is buffered so a failed export still gets a JSON error.
func (h *ExportHandler) Export(c *gin.Context) {
	file := c.Param("file")
	dataset, ok := strings.CutSuffix(file, ".csv")
	if !ok || dataset == "" {
		apierrors.NotFound(c, fmt.Sprintf("export %s not found", file))
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), dataset, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file))
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}
