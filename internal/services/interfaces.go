package services

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateContestRequest = validator.ContestCreateRequest
type UpdateContestRequest = validator.ContestUpdateRequest
type ApplyRequest = validator.ApplyRequest
type ReviewApplicationRequest = validator.ReviewApplicationRequest
type CreateSubmissionRequest = validator.SubmissionCreateRequest
type ScoreRequest = validator.ScoreRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest

type AuthResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      *UserInfoResponse `json:"user"`
}

// UserInfoResponse is the sanitized account view. The password hash never
// leaves the service layer.
type UserInfoResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        models.UserRole `json:"role"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ContestResponse struct {
	*models.Contest
	CanApply  bool `json:"can_apply"`
	CanSubmit bool `json:"can_submit"`
}

type ContestListResponse struct {
	Contests []*models.Contest `json:"contests"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type ApplicationResponse struct {
	*models.ContestApplication
}

// ApplicationListItem attaches a public applicant summary to an application.
// The full user record stays out of list responses.
type ApplicationListItem struct {
	*models.ContestApplication
	Applicant models.UserSummary `json:"applicant"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationListItem `json:"applications"`
	Total        int64                  `json:"total"`
}

type SubmissionResponse struct {
	*models.Submission
}

// JurySubmissionResponse pairs a submission with the calling juror's own
// score. Aggregate scores and other jurors' scores stay hidden.
type JurySubmissionResponse struct {
	ID          string                  `json:"id"`
	UserID      string                  `json:"user_id"`
	ContestID   string                  `json:"contest_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	SubmittedAt time.Time               `json:"submitted_at"`
	Files       []models.SubmissionFile `json:"files"`
	MyScore     *float64                `json:"my_score"`
	MyComment   *string                 `json:"my_comment"`
}

type ScoreResponse struct {
	SubmissionID string   `json:"submission_id"`
	Score        float64  `json:"score"`
	Comment      *string  `json:"comment"`
	FinalScore   *float64 `json:"final_score"`
}

// FileStream carries an open file handle plus the metadata needed for
// transfer headers. The caller must close the reader.
type FileStream struct {
	Reader       io.ReadCloser
	MimeType     string
	OriginalName string
	Size         int64
}

type SweepResult struct {
	ApplicationsOpened int64
	Activated          int64
	SubmissionsClosed  int64
	Completed          int
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*UserInfoResponse, error)
}

type ContestService interface {
	Create(ctx context.Context, req *CreateContestRequest, creatorID string) (*models.Contest, error)
	GetByID(ctx context.Context, id string, userID string) (*ContestResponse, error)
	List(ctx context.Context, filters repositories.ContestFilters) (*ContestListResponse, error)
	Update(ctx context.Context, id string, req *UpdateContestRequest, userID string) (*models.Contest, error)

	Apply(ctx context.Context, contestID, userID string, req *ApplyRequest) (*ApplicationResponse, error)
	ReviewApplication(ctx context.Context, applicationID string, req *ReviewApplicationRequest, reviewerID string) (*ApplicationResponse, error)
	ListApplications(ctx context.Context, contestID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)

	CanUserSubmit(ctx context.Context, contestID, userID string) (bool, error)
	CreateSubmission(ctx context.Context, contestID string, req *CreateSubmissionRequest, userID string) (*SubmissionResponse, error)

	StartJudging(ctx context.Context, contestID, adminID string) (*models.Contest, error)
	SweepStatuses(ctx context.Context) (*SweepResult, error)
}

type JuryService interface {
	ScoreSubmission(ctx context.Context, juryID, submissionID string, req *ScoreRequest) (*ScoreResponse, error)
	GetJurySubmissions(ctx context.Context, juryID, contestID string) ([]*JurySubmissionResponse, error)
	AssignJury(ctx context.Context, contestID, juryID, adminID string) (*models.JuryAssignment, error)
	ListAssignments(ctx context.Context, contestID string) ([]*models.JuryAssignment, error)
}

type FileService interface {
	UploadSubmissionFile(ctx context.Context, userID, submissionID string, header *multipart.FileHeader) (*models.SubmissionFile, error)
	GetFileStream(ctx context.Context, fileID, userID string, role models.UserRole) (*FileStream, error)
	DeleteSubmissionFiles(ctx context.Context, submissionID, userID string, role models.UserRole) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.ProfileResponse, error)
}

type ExportService interface {
	ExportContestResults(ctx context.Context, contestID string) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Contest() ContestService
	Jury() JuryService
	File() FileService
	User() UserService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
