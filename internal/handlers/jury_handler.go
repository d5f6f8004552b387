package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contest-platform/contest-service/internal/services"
	"github.com/contest-platform/contest-service/internal/utils"
)

type JuryHandler struct {
	BaseHandler
	service services.JuryService
}

func NewJuryHandler(service services.JuryService, logger utils.Logger) *JuryHandler {
	return &JuryHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ScoreSubmission records or replaces the caller's score for a submission
// @Summary Score submission
// @Tags jury
// @Accept json
// @Produce json
// @Success 200 {object} services.ScoreResponse
// @Failure 400 {object} ErrorResponse "Score out of range"
// @Failure 403 {object} ErrorResponse "No jury assignment"
// @Router /jury/submissions/{id}/score [post]
func (h *JuryHandler) ScoreSubmission(c *gin.Context) {
	submissionID := c.Param("id")
	h.LogRequest(c, "Scoring submission", "submission_id", submissionID)

	juryID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.ScoreSubmission(c.Request.Context(), juryID, submissionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetContestSubmissions lists a contest's submissions for the calling juror
// @Summary Jury submissions
// @Tags jury
// @Produce json
// @Success 200 {array} services.JurySubmissionResponse
// @Failure 403 {object} ErrorResponse "No jury assignment"
// @Router /jury/contests/{id}/submissions [get]
func (h *JuryHandler) GetContestSubmissions(c *gin.Context) {
	contestID := c.Param("id")
	h.LogRequest(c, "Listing jury submissions", "contest_id", contestID)

	juryID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	submissions, err := h.service.GetJurySubmissions(c.Request.Context(), juryID, contestID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// AssignJury assigns a juror to a contest
// @Summary Assign juror
// @Tags jury
// @Produce json
// @Success 201 {object} models.JuryAssignment
// @Failure 409 {object} ErrorResponse "Already assigned"
// @Router /contests/{id}/jury/{userId} [post]
func (h *JuryHandler) AssignJury(c *gin.Context) {
	contestID := c.Param("id")
	juryID := c.Param("userId")
	h.LogRequest(c, "Assigning juror", "contest_id", contestID, "jury_id", juryID)

	adminID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.service.AssignJury(c.Request.Context(), contestID, juryID, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments lists a contest's jury assignments
// @Summary List jury assignments
// @Tags jury
// @Produce json
// @Success 200 {array} models.JuryAssignment
// @Router /contests/{id}/jury [get]
func (h *JuryHandler) ListAssignments(c *gin.Context) {
	contestID := c.Param("id")

	assignments, err := h.service.ListAssignments(c.Request.Context(), contestID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}
