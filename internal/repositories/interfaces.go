package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ContestFilters struct {
	Status    *models.ContestStatus `json:"status"`
	CreatedBy *string               `json:"created_by"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "title", "application_start"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

type ApplicationFilters struct {
	Status *models.ApplicationStatus `json:"status"`
	UserID *string                   `json:"user_id"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// UserRepository owns the credential store. Lookups by the unique keys
// (id, email, username) back both authentication and profile reads.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, tx *gorm.DB, email, username string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error

	ExistsByID(ctx context.Context, id string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}

type ContestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, contest *models.Contest) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Contest, error)
	Update(ctx context.Context, tx *gorm.DB, contest *models.Contest) error
	AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, from, to models.ContestStatus) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters ContestFilters) ([]*models.Contest, int64, error)

	// BulkAdvanceStatus flips every contest matching (status == from AND
	// deadlineColumn <= now) to the next status in a single conditional
	// UPDATE, so overlapping sweeps cannot double-fire a transition.
	// Returns the number of rows affected.
	BulkAdvanceStatus(ctx context.Context, tx *gorm.DB, from, to models.ContestStatus, deadlineColumn string, now time.Time) (int64, error)

	// GetJudgingWithDetails loads JUDGING contests with submissions, their
	// scores and the jury assignments, for completeness checks.
	GetJudgingWithDetails(ctx context.Context, tx *gorm.DB) ([]*models.Contest, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ContestApplication, error)
	GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.ContestApplication, error)
	Update(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error
	ListByContest(ctx context.Context, tx *gorm.DB, contestID string, filters ApplicationFilters) ([]*models.ContestApplication, int64, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)

	// GetByIDWithContest preloads the contest and files for guard checks
	// and responses.
	GetByIDWithContest(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error)
	GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.Submission, error)

	// ListByContest returns all submissions ordered by submission time ascending.
	ListByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error)

	// ListScoredByContest returns submissions with a non-nil final score,
	// ordered by final score descending with stable ties.
	ListScoredByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error)

	// ListRankedByContest returns ranked submissions (rank asc) with their owners.
	ListRankedByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error)

	SetFinalScore(ctx context.Context, tx *gorm.DB, id string, score *float64) error
	SetRank(ctx context.Context, tx *gorm.DB, id string, rank *int) error
}

type JuryRepository interface {
	CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.JuryAssignment) error
	GetAssignment(ctx context.Context, tx *gorm.DB, juryID, contestID string) (*models.JuryAssignment, error)
	ListAssignmentsByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.JuryAssignment, error)

	// UpsertScore inserts or updates the (jury, submission) score row.
	UpsertScore(ctx context.Context, tx *gorm.DB, score *models.JuryScore) error
	GetScoresBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.JuryScore, error)
	// GetScoresByJuryAndSubmissions returns one juror's scores for a set of
	// submissions, keyed by submission id.
	GetScoresByJuryAndSubmissions(ctx context.Context, tx *gorm.DB, juryID string, submissionIDs []string) (map[string]*models.JuryScore, error)
}

type FileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *models.SubmissionFile) error

	// GetByIDWithDetails preloads the owning submission and its contest for
	// the download authorization check.
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.SubmissionFile, error)
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionFile, error)
	DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) error
}
