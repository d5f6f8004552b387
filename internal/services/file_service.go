package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

// allowedMimeTypes is the upload allow-list with the extension each type is
// stored under.
var allowedMimeTypes = map[string]string{
	"image/png":         "png",
	"image/jpeg":        "jpg",
	"video/mp4":         "mp4",
	"application/zip":   "zip",
	"application/pdf":   "pdf",
	"model/gltf-binary": "glb",
	"model/obj":         "obj",
	"model/fbx":         "fbx",
}

type fileService struct {
	repo       repositories.Repository
	db         *gorm.DB
	logger     *slog.Logger
	uploadRoot string
}

func NewFileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, uploadRoot string) FileService {
	return &fileService{
		repo:       repo,
		db:         db,
		logger:     logger,
		uploadRoot: uploadRoot,
	}
}

func (s *fileService) UploadSubmissionFile(ctx context.Context, userID, submissionID string, header *multipart.FileHeader) (*models.SubmissionFile, error) {
	s.logger.Info("Uploading submission file", "submission_id", submissionID, "user_id", userID, "size", header.Size)

	submission, err := s.repo.Submission().GetByIDWithContest(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if submission.UserID != userID {
		return nil, NewPermissionError(userID, submissionID, "submission", "upload", "not the submission owner")
	}

	mimeType := header.Header.Get("Content-Type")
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, NewValidationError("file", fmt.Sprintf("file type %q is not allowed", mimeType), mimeType)
	}

	maxSize := submission.Contest.MaxFileSize
	if maxSize <= 0 {
		maxSize = models.DefaultMaxFileSize
	}
	if header.Size > maxSize {
		return nil, NewValidationError("file",
			fmt.Sprintf("file exceeds the maximum allowed size of %d bytes", maxSize), header.Size)
	}

	randomID, err := randomHex(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate filename: %w", err)
	}
	storedName := fmt.Sprintf("%s.%s", randomID, ext)

	relPath := filepath.Join(
		"contests", submission.ContestID,
		"submissions", submission.UserID,
		submissionID, storedName,
	)
	absPath := filepath.Join(s.uploadRoot, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	file := &models.SubmissionFile{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		Filename:     storedName,
		OriginalName: header.Filename,
		Filepath:     relPath,
		MimeType:     mimeType,
		Size:         written,
	}

	if err := s.repo.File().Create(ctx, nil, file); err != nil {
		os.Remove(absPath)
		return nil, fmt.Errorf("failed to store file metadata: %w", err)
	}

	s.logger.Info("File uploaded", "file_id", file.ID, "path", relPath)
	return file, nil
}

// GetFileStream opens a stored file for the caller if they own the
// submission, judge its contest or are an admin.
func (s *fileService) GetFileStream(ctx context.Context, fileID, userID string, role models.UserRole) (*FileStream, error) {
	file, err := s.repo.File().GetByIDWithDetails(ctx, nil, fileID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.authorizeFileAccess(ctx, file, userID, role); err != nil {
		return nil, err
	}

	reader, err := os.Open(filepath.Join(s.uploadRoot, file.Filepath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &FileStream{
		Reader:       reader,
		MimeType:     file.MimeType,
		OriginalName: file.OriginalName,
		Size:         file.Size,
	}, nil
}

// DeleteSubmissionFiles removes a submission's files from disk best-effort,
// then deletes the metadata rows. A failed unlink is logged, not fatal.
func (s *fileService) DeleteSubmissionFiles(ctx context.Context, submissionID, userID string, role models.UserRole) error {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}

	if submission.UserID != userID && role != models.RoleAdmin {
		return NewPermissionError(userID, submissionID, "submission", "delete_files", "not the submission owner")
	}

	files, err := s.repo.File().ListBySubmission(ctx, nil, submissionID)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	for _, file := range files {
		path := filepath.Join(s.uploadRoot, file.Filepath)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove file from disk", "file_id", file.ID, "path", path, "error", err)
		}
	}

	if err := s.repo.File().DeleteBySubmission(ctx, nil, submissionID); err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}

	s.logger.Info("Submission files deleted", "submission_id", submissionID, "count", len(files))
	return nil
}

func (s *fileService) authorizeFileAccess(ctx context.Context, file *models.SubmissionFile, userID string, role models.UserRole) error {
	if role == models.RoleAdmin {
		return nil
	}
	if file.Submission.UserID == userID {
		return nil
	}

	_, err := s.repo.Jury().GetAssignment(ctx, nil, userID, file.Submission.ContestID)
	if err == nil {
		return nil
	}
	if !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to check assignment: %w", err)
	}

	return NewPermissionError(userID, file.ID, "file", "download", "not owner, assigned juror or admin")
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// MimeExtension reports the storage extension for an allowed MIME type.
func MimeExtension(mimeType string) (string, bool) {
	ext, ok := allowedMimeTypes[mimeType]
	return ext, ok
}
