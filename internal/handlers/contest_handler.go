package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/services"
	"github.com/contest-platform/contest-service/internal/utils"
)

type ContestHandler struct {
	BaseHandler
	service       services.ContestService
	exportService services.ExportService
}

func NewContestHandler(service services.ContestService, exportService services.ExportService, logger utils.Logger) *ContestHandler {
	return &ContestHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		exportService: exportService,
	}
}

// CreateContest creates a new contest in DRAFT
// @Summary Create contest
// @Tags contests
// @Accept json
// @Produce json
// @Success 201 {object} models.Contest
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /contests [post]
func (h *ContestHandler) CreateContest(c *gin.Context) {
	h.LogRequest(c, "Creating contest")

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	contest, err := h.service.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contest)
}

// GetContest returns one contest with caller-specific flags
// @Summary Get contest
// @Tags contests
// @Produce json
// @Success 200 {object} services.ContestResponse
// @Failure 404 {object} ErrorResponse "Contest not found"
// @Router /contests/{id} [get]
func (h *ContestHandler) GetContest(c *gin.Context) {
	id := c.Param("id")

	userID := ""
	if v, exists := c.Get("user_id"); exists {
		userID = v.(string)
	}

	contest, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

// ListContests lists contests with filters
// @Summary List contests
// @Tags contests
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size (default: 20, max: 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} services.ContestListResponse
// @Router /contests [get]
func (h *ContestHandler) ListContests(c *gin.Context) {
	h.LogRequest(c, "Listing contests")

	filters := repositories.ContestFilters{
		Limit:     20,
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 {
		if limit > 100 {
			limit = 100
		}
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filters.Offset = offset
	}
	if status := c.Query("status"); status != "" {
		s := models.ContestStatus(status)
		filters.Status = &s
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateContest edits a contest
// @Summary Update contest
// @Tags contests
// @Accept json
// @Produce json
// @Success 200 {object} models.Contest
// @Failure 422 {object} ErrorResponse "Timeline locked"
// @Router /contests/{id} [put]
func (h *ContestHandler) UpdateContest(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Updating contest", "contest_id", id)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.UpdateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	contest, err := h.service.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

// Apply submits a contest application
// @Summary Apply to contest
// @Tags contests
// @Accept json
// @Produce json
// @Success 201 {object} services.ApplicationResponse
// @Failure 409 {object} ErrorResponse "Already applied"
// @Failure 422 {object} ErrorResponse "Applications closed"
// @Router /contests/{id}/apply [post]
func (h *ContestHandler) Apply(c *gin.Context) {
	contestID := c.Param("id")
	h.LogRequest(c, "Contest application", "contest_id", contestID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	application, err := h.service.Apply(c.Request.Context(), contestID, userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

// ReviewApplication approves or rejects a pending application
// @Summary Review application
// @Tags contests
// @Accept json
// @Produce json
// @Success 200 {object} services.ApplicationResponse
// @Router /applications/{id}/review [put]
func (h *ContestHandler) ReviewApplication(c *gin.Context) {
	applicationID := c.Param("id")
	h.LogRequest(c, "Reviewing application", "application_id", applicationID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	application, err := h.service.ReviewApplication(c.Request.Context(), applicationID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ListApplications lists a contest's applications
// @Summary List applications
// @Tags contests
// @Produce json
// @Success 200 {object} services.ApplicationListResponse
// @Router /contests/{id}/applications [get]
func (h *ContestHandler) ListApplications(c *gin.Context) {
	contestID := c.Param("id")

	filters := repositories.ApplicationFilters{Limit: 50}
	if status := c.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		filters.Status = &s
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset >= 0 {
		filters.Offset = offset
	}

	resp, err := h.service.ListApplications(c.Request.Context(), contestID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CanSubmit reports whether the caller may submit right now
// @Summary Submission eligibility
// @Tags contests
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /contests/{id}/can-submit [get]
func (h *ContestHandler) CanSubmit(c *gin.Context) {
	contestID := c.Param("id")

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	canSubmit, err := h.service.CanUserSubmit(c.Request.Context(), contestID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_submit": canSubmit})
}

// CreateSubmission creates the caller's submission for a contest
// @Summary Create submission
// @Tags contests
// @Accept json
// @Produce json
// @Success 201 {object} services.SubmissionResponse
// @Failure 403 {object} ErrorResponse "Not eligible"
// @Failure 409 {object} ErrorResponse "Already submitted"
// @Router /contests/{id}/submissions [post]
func (h *ContestHandler) CreateSubmission(c *gin.Context) {
	contestID := c.Param("id")
	h.LogRequest(c, "Creating submission", "contest_id", contestID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.service.CreateSubmission(c.Request.Context(), contestID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// StartJudging moves a contest from SUBMISSION_CLOSED to JUDGING
// @Summary Start judging
// @Tags contests
// @Produce json
// @Success 200 {object} models.Contest
// @Failure 400 {object} ErrorResponse "Invalid transition"
// @Router /contests/{id}/judging [post]
func (h *ContestHandler) StartJudging(c *gin.Context) {
	contestID := c.Param("id")
	h.LogRequest(c, "Starting judging", "contest_id", contestID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	contest, err := h.service.StartJudging(c.Request.Context(), contestID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

// ExportResults streams a completed contest's results as xlsx
// @Summary Export results
// @Tags contests
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /contests/{id}/export [get]
func (h *ContestHandler) ExportResults(c *gin.Context) {
	contestID := c.Param("id")
	h.LogRequest(c, "Exporting contest results", "contest_id", contestID)

	data, err := h.exportService.ExportContestResults(c.Request.Context(), contestID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("contest-results-%s-%s.xlsx", contestID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
