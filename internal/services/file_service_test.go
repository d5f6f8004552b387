package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/contest-platform/contest-service/internal/models"
)

// makeFileHeader builds a real multipart file header so header.Open works.
func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func uploadTestSubmission(maxFileSize int64) *models.Submission {
	return &models.Submission{
		ID:        "sub-1",
		UserID:    "user-1",
		ContestID: "contest-1",
		Contest:   models.Contest{ID: "contest-1", MaxFileSize: maxFileSize},
	}
}

func TestUploadSubmissionFile(t *testing.T) {
	ctx := context.Background()
	storedNamePattern := regexp.MustCompile(`^[0-9a-f]{32}\.png$`)

	t.Run("stores the file under a random name", func(t *testing.T) {
		uploadRoot := t.TempDir()
		repo := newMockRepository()
		repo.submission.getByIDWithContestFn = func(id string) (*models.Submission, error) {
			return uploadTestSubmission(models.DefaultMaxFileSize), nil
		}

		var stored *models.SubmissionFile
		repo.file.createFn = func(file *models.SubmissionFile) error {
			stored = file
			return nil
		}

		svc := NewFileService(repo, nil, testLogger(), uploadRoot)
		content := []byte("fake png bytes")
		header := makeFileHeader(t, "artwork.png", "image/png", content)

		file, err := svc.UploadSubmissionFile(ctx, "user-1", "sub-1", header)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !storedNamePattern.MatchString(file.Filename) {
			t.Errorf("stored name %q does not match expected pattern", file.Filename)
		}
		if file.OriginalName != "artwork.png" {
			t.Errorf("expected original name %q, got %q", "artwork.png", file.OriginalName)
		}
		if file.MimeType != "image/png" {
			t.Errorf("expected mime type image/png, got %q", file.MimeType)
		}
		if file.Size != int64(len(content)) {
			t.Errorf("expected size %d, got %d", len(content), file.Size)
		}

		wantDir := filepath.Join("contests", "contest-1", "submissions", "user-1", "sub-1")
		if filepath.Dir(file.Filepath) != wantDir {
			t.Errorf("expected path under %q, got %q", wantDir, file.Filepath)
		}

		onDisk, err := os.ReadFile(filepath.Join(uploadRoot, file.Filepath))
		if err != nil {
			t.Fatalf("failed to read stored file: %v", err)
		}
		if !bytes.Equal(onDisk, content) {
			t.Error("stored file content differs from upload")
		}

		if stored == nil || stored.ID != file.ID {
			t.Errorf("expected metadata row for %s, got %+v", file.ID, stored)
		}
	})

	t.Run("rejects disallowed mime types", func(t *testing.T) {
		repo := newMockRepository()
		repo.submission.getByIDWithContestFn = func(id string) (*models.Submission, error) {
			return uploadTestSubmission(models.DefaultMaxFileSize), nil
		}

		svc := NewFileService(repo, nil, testLogger(), t.TempDir())
		header := makeFileHeader(t, "script.sh", "text/x-shellscript", []byte("#!/bin/sh"))

		_, err := svc.UploadSubmissionFile(ctx, "user-1", "sub-1", header)
		var fieldErr ValidationError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if fieldErr.Field != "file" {
			t.Errorf("expected field %q, got %q", "file", fieldErr.Field)
		}
	})

	t.Run("enforces the contest size cap", func(t *testing.T) {
		repo := newMockRepository()
		repo.submission.getByIDWithContestFn = func(id string) (*models.Submission, error) {
			return uploadTestSubmission(10), nil
		}

		svc := NewFileService(repo, nil, testLogger(), t.TempDir())
		header := makeFileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 11))

		_, err := svc.UploadSubmissionFile(ctx, "user-1", "sub-1", header)
		var fieldErr ValidationError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if !strings.Contains(fieldErr.Message, "10 bytes") {
			t.Errorf("expected message to name the 10 byte limit, got %q", fieldErr.Message)
		}
	})

	t.Run("only the owner may upload", func(t *testing.T) {
		repo := newMockRepository()
		repo.submission.getByIDWithContestFn = func(id string) (*models.Submission, error) {
			return uploadTestSubmission(models.DefaultMaxFileSize), nil
		}

		svc := NewFileService(repo, nil, testLogger(), t.TempDir())
		header := makeFileHeader(t, "artwork.png", "image/png", []byte("data"))

		_, err := svc.UploadSubmissionFile(ctx, "someone-else", "sub-1", header)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("unknown submission", func(t *testing.T) {
		svc := NewFileService(newMockRepository(), nil, testLogger(), t.TempDir())
		header := makeFileHeader(t, "artwork.png", "image/png", []byte("data"))

		_, err := svc.UploadSubmissionFile(ctx, "user-1", "missing", header)
		if !errors.Is(err, ErrSubmissionNotFound) {
			t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
		}
	})
}

func TestGetFileStream(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (string, *mockRepository, *models.SubmissionFile) {
		uploadRoot := t.TempDir()
		relPath := filepath.Join("contests", "contest-1", "submissions", "user-1", "sub-1", "aabb.png")
		if err := os.MkdirAll(filepath.Dir(filepath.Join(uploadRoot, relPath)), 0o755); err != nil {
			t.Fatalf("failed to create dirs: %v", err)
		}
		if err := os.WriteFile(filepath.Join(uploadRoot, relPath), []byte("png-data"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		file := &models.SubmissionFile{
			ID:           "file-1",
			SubmissionID: "sub-1",
			Filename:     "aabb.png",
			OriginalName: "artwork.png",
			Filepath:     relPath,
			MimeType:     "image/png",
			Size:         8,
			Submission: models.Submission{
				ID:        "sub-1",
				UserID:    "user-1",
				ContestID: "contest-1",
			},
		}

		repo := newMockRepository()
		repo.file.getByIDWithDetailsFn = func(id string) (*models.SubmissionFile, error) { return file, nil }
		return uploadRoot, repo, file
	}

	t.Run("owner can stream the file", func(t *testing.T) {
		uploadRoot, repo, _ := setup(t)
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		stream, err := svc.GetFileStream(ctx, "file-1", "user-1", models.RoleUser)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer stream.Reader.Close()

		data, err := io.ReadAll(stream.Reader)
		if err != nil {
			t.Fatalf("failed to read stream: %v", err)
		}
		if string(data) != "png-data" {
			t.Errorf("unexpected stream content %q", data)
		}
		if stream.MimeType != "image/png" || stream.OriginalName != "artwork.png" {
			t.Errorf("unexpected stream metadata %+v", stream)
		}
	})

	t.Run("assigned juror can stream the file", func(t *testing.T) {
		uploadRoot, repo, _ := setup(t)
		repo.jury.getAssignmentFn = func(juryID, contestID string) (*models.JuryAssignment, error) {
			return &models.JuryAssignment{JuryID: juryID, ContestID: contestID}, nil
		}
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		stream, err := svc.GetFileStream(ctx, "file-1", "jury-1", models.RoleJury)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stream.Reader.Close()
	})

	t.Run("admin can stream any file", func(t *testing.T) {
		uploadRoot, repo, _ := setup(t)
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		stream, err := svc.GetFileStream(ctx, "file-1", "admin-1", models.RoleAdmin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stream.Reader.Close()
	})

	t.Run("strangers are denied", func(t *testing.T) {
		uploadRoot, repo, _ := setup(t)
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		_, err := svc.GetFileStream(ctx, "file-1", "stranger", models.RoleUser)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("missing disk file", func(t *testing.T) {
		uploadRoot, repo, file := setup(t)
		os.Remove(filepath.Join(uploadRoot, file.Filepath))
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		_, err := svc.GetFileStream(ctx, "file-1", "user-1", models.RoleUser)
		if !errors.Is(err, ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
	})
}

func TestDeleteSubmissionFiles(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (string, *mockRepository, string) {
		uploadRoot := t.TempDir()
		relPath := filepath.Join("contests", "contest-1", "submissions", "user-1", "sub-1", "aabb.png")
		absPath := filepath.Join(uploadRoot, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			t.Fatalf("failed to create dirs: %v", err)
		}
		if err := os.WriteFile(absPath, []byte("png-data"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		repo := newMockRepository()
		repo.submission.getByIDFn = func(id string) (*models.Submission, error) {
			return &models.Submission{ID: id, UserID: "user-1", ContestID: "contest-1"}, nil
		}
		repo.file.listBySubmissionFn = func(submissionID string) ([]*models.SubmissionFile, error) {
			return []*models.SubmissionFile{{ID: "file-1", SubmissionID: submissionID, Filepath: relPath}}, nil
		}
		return uploadRoot, repo, absPath
	}

	t.Run("owner deletes files and metadata", func(t *testing.T) {
		uploadRoot, repo, absPath := setup(t)
		var deletedSubmission string
		repo.file.deleteBySubmissionFn = func(submissionID string) error {
			deletedSubmission = submissionID
			return nil
		}

		svc := NewFileService(repo, nil, testLogger(), uploadRoot)
		if err := svc.DeleteSubmissionFiles(ctx, "sub-1", "user-1", models.RoleUser); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(absPath); !os.IsNotExist(err) {
			t.Error("expected file to be removed from disk")
		}
		if deletedSubmission != "sub-1" {
			t.Errorf("expected metadata delete for sub-1, got %q", deletedSubmission)
		}
	})

	t.Run("admin may delete any submission's files", func(t *testing.T) {
		uploadRoot, repo, _ := setup(t)
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)
		if err := svc.DeleteSubmissionFiles(ctx, "sub-1", "admin-1", models.RoleAdmin); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("others are denied", func(t *testing.T) {
		uploadRoot, repo, absPath := setup(t)
		svc := NewFileService(repo, nil, testLogger(), uploadRoot)

		err := svc.DeleteSubmissionFiles(ctx, "sub-1", "stranger", models.RoleUser)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			t.Error("expected file to survive a denied delete")
		}
	})
}

func TestMimeExtension(t *testing.T) {
	tests := []struct {
		mimeType string
		ext      string
		allowed  bool
	}{
		{"image/png", "png", true},
		{"image/jpeg", "jpg", true},
		{"video/mp4", "mp4", true},
		{"application/zip", "zip", true},
		{"application/pdf", "pdf", true},
		{"model/gltf-binary", "glb", true},
		{"model/obj", "obj", true},
		{"model/fbx", "fbx", true},
		{"image/gif", "", false},
		{"text/html", "", false},
		{"application/x-msdownload", "", false},
	}

	for _, tt := range tests {
		ext, ok := MimeExtension(tt.mimeType)
		if ok != tt.allowed || ext != tt.ext {
			t.Errorf("MimeExtension(%q) = (%q, %v), expected (%q, %v)", tt.mimeType, ext, ok, tt.ext, tt.allowed)
		}
	}
}
