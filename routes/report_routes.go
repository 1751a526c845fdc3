package routes

import (
	"net/http"

	"complaint-tracker-backend/app/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler menangani laporan aktivitas untuk WARDEN/STAFF.
type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) SetupReportRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/reports")
	g.Use(auth)
	g.GET("/activity", h.Activity)
}

// Activity: ?from=&to= (RFC3339 atau YYYY-MM-DD).
func (h *ReportHandler) Activity(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	report, err := h.reports.Activity(c.Request.Context(), caller, c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Activity report fetched successfully", report)
}
