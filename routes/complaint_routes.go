package routes

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"complaint-tracker-backend/app/service"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
)

// ComplaintHandler menangani endpoint lifecycle complaint.
type ComplaintHandler struct {
	complaints service.ComplaintService
}

func NewComplaintHandler(complaints service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// SetupComplaintRoutes mendaftarkan /complaints. Semua endpoint wajib login.
func (h *ComplaintHandler) SetupComplaintRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/complaints")
	g.Use(auth)
	{
		g.POST("", h.Create)
		g.POST("/accept", h.Accept)
		g.PATCH("/status", h.UpdateStatus)
		g.GET("", h.List)
		// /stats didaftarkan sebelum /:complaintId, gin memprioritaskan path statis
		g.GET("/stats", h.Stats)
		g.GET("/:complaintId", h.GetByID)
		g.GET("/:complaintId/history", h.History)
		g.DELETE("/:complaintId", h.Delete)
		g.POST("/:complaintId/reopen", h.Reopen)
	}
}

// Create: multipart form (title, description, location, category, image opsional).
func (h *ComplaintHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	in := service.CreateComplaintInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Category:    c.PostForm("category"),
	}

	header, err := c.FormFile("image")
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			fail(c, utils.NewValidationError("Invalid image upload"))
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(file)
		in.Image = file
		in.ImageName = header.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// tanpa gambar
	default:
		fail(c, utils.NewValidationError("Invalid image upload").WithErrors(err.Error()))
		return
	}

	complaint, err := h.complaints.Create(c.Request.Context(), caller, in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Complaint created successfully", gin.H{"complaint": complaint})
}

func (h *ComplaintHandler) Accept(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req struct {
		ComplaintID string `json:"complaintId"`
	}
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := h.complaints.Accept(c.Request.Context(), caller, req.ComplaintID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint accepted successfully", gin.H{"complaint": complaint})
}

func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req struct {
		ComplaintID string `json:"complaintId"`
		Status      string `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.ComplaintID == "" || req.Status == "" {
		fail(c, utils.NewValidationError("Complaint ID and status are required"))
		return
	}

	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), caller, req.ComplaintID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint status updated successfully", gin.H{"updatedComplaint": complaint})
}

// List: ?page=&limit= ; nilai tidak valid kembali ke default.
func (h *ComplaintHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.complaints.List(c.Request.Context(), caller, page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaints fetched successfully", result)
}

func (h *ComplaintHandler) Stats(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	stats, err := h.complaints.Stats(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint statistics fetched successfully", stats)
}

func (h *ComplaintHandler) GetByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	complaint, err := h.complaints.GetByID(c.Request.Context(), caller, c.Param("complaintId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint fetched successfully", gin.H{"complaint": complaint})
}

func (h *ComplaintHandler) History(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	events, err := h.complaints.History(c.Request.Context(), caller, c.Param("complaintId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint history fetched successfully", gin.H{"events": events})
}

func (h *ComplaintHandler) Delete(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	if err := h.complaints.Delete(c.Request.Context(), caller, c.Param("complaintId")); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint deleted successfully", nil)
}

func (h *ComplaintHandler) Reopen(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req service.FeedbackInput
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := h.complaints.Reopen(c.Request.Context(), caller, c.Param("complaintId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint reopened successfully", gin.H{"complaint": complaint})
}
