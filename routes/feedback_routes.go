package routes

import (
	"net/http"

	"complaint-tracker-backend/app/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler menangani feedback student atas complaint.
type FeedbackHandler struct {
	feedback service.FeedbackService
}

func NewFeedbackHandler(feedback service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) SetupFeedbackRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	g := api.Group("/feedback")
	g.Use(auth)
	{
		g.POST("", h.Give)
		g.GET("/:complaintId", h.Get)
	}
}

func (h *FeedbackHandler) Give(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req struct {
		ComplaintID string  `json:"complaintId"`
		Rating      int     `json:"rating"`
		Comment     *string `json:"comment"`
	}
	if !bindJSON(c, &req) {
		return
	}

	fb, err := h.feedback.GiveFeedback(c.Request.Context(), caller, req.ComplaintID, service.FeedbackInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Feedback created successfully", gin.H{"feedback": fb})
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	fb, err := h.feedback.GetFeedback(c.Request.Context(), caller, c.Param("complaintId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Feedback fetched successfully", gin.H{"feedback": fb})
}
