package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contest-platform/contest-service/internal/services"
	"github.com/contest-platform/contest-service/internal/utils"
)

type FileHandler struct {
	BaseHandler
	service services.FileService
}

func NewFileHandler(service services.FileService, logger utils.Logger) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// UploadFile attaches a file to the caller's submission
// @Summary Upload submission file
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} models.SubmissionFile
// @Failure 400 {object} ErrorResponse "Type not allowed or too large"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /submissions/{id}/files [post]
func (h *FileHandler) UploadFile(c *gin.Context) {
	submissionID := c.Param("id")
	h.LogRequest(c, "Uploading file", "submission_id", submissionID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file in multipart form",
			Details: err.Error(),
		})
		return
	}

	file, err := h.service.UploadSubmissionFile(c.Request.Context(), userID, submissionID, header)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

// DownloadFile streams a stored file with transfer headers
// @Summary Download file
// @Tags files
// @Produce octet-stream
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Not owner, juror or admin"
// @Failure 404 {object} ErrorResponse "File not found"
// @Router /files/{fileId} [get]
func (h *FileHandler) DownloadFile(c *gin.Context) {
	fileID := c.Param("fileId")

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	role := h.GetUserRole(c)

	stream, err := h.service.GetFileStream(c.Request.Context(), fileID, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer stream.Reader.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", stream.OriginalName),
	}
	c.DataFromReader(http.StatusOK, stream.Size, stream.MimeType, stream.Reader, extraHeaders)
}

// DeleteFiles removes all files of a submission
// @Summary Delete submission files
// @Tags files
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Router /submissions/{id}/files [delete]
func (h *FileHandler) DeleteFiles(c *gin.Context) {
	submissionID := c.Param("id")
	h.LogRequest(c, "Deleting submission files", "submission_id", submissionID)

	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}
	role := h.GetUserRole(c)

	if err := h.service.DeleteSubmissionFiles(c.Request.Context(), submissionID, userID, role); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Submission files deleted",
	})
}
