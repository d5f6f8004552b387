package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

// mockRepository implements repositories.Repository with swappable function
// fields on each sub-repository. Unset functions return not-found or zero
// values.
type mockRepository struct {
	user        *mockUserRepo
	contest     *mockContestRepo
	application *mockApplicationRepo
	submission  *mockSubmissionRepo
	jury        *mockJuryRepo
	file        *mockFileRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:        &mockUserRepo{},
		contest:     &mockContestRepo{},
		application: &mockApplicationRepo{},
		submission:  &mockSubmissionRepo{},
		jury:        &mockJuryRepo{},
		file:        &mockFileRepo{},
	}
}

func (m *mockRepository) User() repositories.UserRepository               { return m.user }
func (m *mockRepository) Contest() repositories.ContestRepository         { return m.contest }
func (m *mockRepository) Application() repositories.ApplicationRepository { return m.application }
func (m *mockRepository) Submission() repositories.SubmissionRepository   { return m.submission }
func (m *mockRepository) Jury() repositories.JuryRepository               { return m.jury }
func (m *mockRepository) File() repositories.FileRepository               { return m.file }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USER =====

type mockUserRepo struct {
	createFn               func(user *models.User) error
	getByIDFn              func(id string) (*models.User, error)
	getByEmailFn           func(email string) (*models.User, error)
	getByEmailOrUsernameFn func(email, username string) (*models.User, error)
	updateFn               func(user *models.User) error
	existsByIDFn           func(id string) (bool, error)
	hasRoleFn              func(id string, role models.UserRole) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(email)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) GetByEmailOrUsername(ctx context.Context, tx *gorm.DB, email, username string) (*models.User, error) {
	if m.getByEmailOrUsernameFn != nil {
		return m.getByEmailOrUsernameFn(email, username)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.updateFn != nil {
		return m.updateFn(user)
	}
	return nil
}

func (m *mockUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if m.existsByIDFn != nil {
		return m.existsByIDFn(id)
	}
	return true, nil
}

func (m *mockUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(id, role)
	}
	return true, nil
}

// ===== CONTEST =====

type mockContestRepo struct {
	getByIDFn           func(id string) (*models.Contest, error)
	updateFn            func(contest *models.Contest) error
	advanceStatusFn     func(id string, from, to models.ContestStatus) (bool, error)
	bulkAdvanceFn       func(from, to models.ContestStatus, column string, now time.Time) (int64, error)
	judgingWithDetailFn func() ([]*models.Contest, error)
}

func (m *mockContestRepo) Create(ctx context.Context, tx *gorm.DB, contest *models.Contest) error {
	return nil
}

func (m *mockContestRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Contest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockContestRepo) Update(ctx context.Context, tx *gorm.DB, contest *models.Contest) error {
	if m.updateFn != nil {
		return m.updateFn(contest)
	}
	return nil
}

func (m *mockContestRepo) AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, from, to models.ContestStatus) (bool, error) {
	if m.advanceStatusFn != nil {
		return m.advanceStatusFn(id, from, to)
	}
	return true, nil
}

func (m *mockContestRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ContestFilters) ([]*models.Contest, int64, error) {
	return nil, 0, nil
}

func (m *mockContestRepo) BulkAdvanceStatus(ctx context.Context, tx *gorm.DB, from, to models.ContestStatus, column string, now time.Time) (int64, error) {
	if m.bulkAdvanceFn != nil {
		return m.bulkAdvanceFn(from, to, column, now)
	}
	return 0, nil
}

func (m *mockContestRepo) GetJudgingWithDetails(ctx context.Context, tx *gorm.DB) ([]*models.Contest, error) {
	if m.judgingWithDetailFn != nil {
		return m.judgingWithDetailFn()
	}
	return nil, nil
}

// ===== APPLICATION =====

type mockApplicationRepo struct {
	createFn              func(application *models.ContestApplication) error
	getByIDFn             func(id string) (*models.ContestApplication, error)
	getByUserAndContestFn func(userID, contestID string) (*models.ContestApplication, error)
	updateFn              func(application *models.ContestApplication) error
}

func (m *mockApplicationRepo) Create(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error {
	if m.createFn != nil {
		return m.createFn(application)
	}
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ContestApplication, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.ContestApplication, error) {
	if m.getByUserAndContestFn != nil {
		return m.getByUserAndContestFn(userID, contestID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) Update(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error {
	if m.updateFn != nil {
		return m.updateFn(application)
	}
	return nil
}

func (m *mockApplicationRepo) ListByContest(ctx context.Context, tx *gorm.DB, contestID string, filters repositories.ApplicationFilters) ([]*models.ContestApplication, int64, error) {
	return nil, 0, nil
}

// ===== SUBMISSION =====

type mockSubmissionRepo struct {
	createFn              func(submission *models.Submission) error
	getByIDFn             func(id string) (*models.Submission, error)
	getByIDWithContestFn  func(id string) (*models.Submission, error)
	getByUserAndContestFn func(userID, contestID string) (*models.Submission, error)
	listByContestFn       func(contestID string) ([]*models.Submission, error)
	listScoredFn          func(contestID string) ([]*models.Submission, error)
	listRankedFn          func(contestID string) ([]*models.Submission, error)
	setFinalScoreFn       func(id string, score *float64) error
	setRankFn             func(id string, rank *int) error
}

func (m *mockSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if m.createFn != nil {
		return m.createFn(submission)
	}
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSubmissionRepo) GetByIDWithContest(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	if m.getByIDWithContestFn != nil {
		return m.getByIDWithContestFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSubmissionRepo) GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.Submission, error) {
	if m.getByUserAndContestFn != nil {
		return m.getByUserAndContestFn(userID, contestID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockSubmissionRepo) ListByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	if m.listByContestFn != nil {
		return m.listByContestFn(contestID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) ListScoredByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	if m.listScoredFn != nil {
		return m.listScoredFn(contestID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) ListRankedByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	if m.listRankedFn != nil {
		return m.listRankedFn(contestID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) SetFinalScore(ctx context.Context, tx *gorm.DB, id string, score *float64) error {
	if m.setFinalScoreFn != nil {
		return m.setFinalScoreFn(id, score)
	}
	return nil
}

func (m *mockSubmissionRepo) SetRank(ctx context.Context, tx *gorm.DB, id string, rank *int) error {
	if m.setRankFn != nil {
		return m.setRankFn(id, rank)
	}
	return nil
}

// ===== JURY =====

type mockJuryRepo struct {
	getAssignmentFn         func(juryID, contestID string) (*models.JuryAssignment, error)
	upsertScoreFn           func(score *models.JuryScore) error
	getScoresBySubmissionFn func(submissionID string) ([]*models.JuryScore, error)
	getScoresByJuryFn       func(juryID string, submissionIDs []string) (map[string]*models.JuryScore, error)
}

func (m *mockJuryRepo) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.JuryAssignment) error {
	return nil
}

func (m *mockJuryRepo) GetAssignment(ctx context.Context, tx *gorm.DB, juryID, contestID string) (*models.JuryAssignment, error) {
	if m.getAssignmentFn != nil {
		return m.getAssignmentFn(juryID, contestID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockJuryRepo) ListAssignmentsByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.JuryAssignment, error) {
	return nil, nil
}

func (m *mockJuryRepo) UpsertScore(ctx context.Context, tx *gorm.DB, score *models.JuryScore) error {
	if m.upsertScoreFn != nil {
		return m.upsertScoreFn(score)
	}
	return nil
}

func (m *mockJuryRepo) GetScoresBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.JuryScore, error) {
	if m.getScoresBySubmissionFn != nil {
		return m.getScoresBySubmissionFn(submissionID)
	}
	return nil, nil
}

func (m *mockJuryRepo) GetScoresByJuryAndSubmissions(ctx context.Context, tx *gorm.DB, juryID string, submissionIDs []string) (map[string]*models.JuryScore, error) {
	if m.getScoresByJuryFn != nil {
		return m.getScoresByJuryFn(juryID, submissionIDs)
	}
	return map[string]*models.JuryScore{}, nil
}

// ===== FILE =====

type mockFileRepo struct {
	createFn             func(file *models.SubmissionFile) error
	getByIDWithDetailsFn func(id string) (*models.SubmissionFile, error)
	listBySubmissionFn   func(submissionID string) ([]*models.SubmissionFile, error)
	deleteBySubmissionFn func(submissionID string) error
}

func (m *mockFileRepo) Create(ctx context.Context, tx *gorm.DB, file *models.SubmissionFile) error {
	if m.createFn != nil {
		return m.createFn(file)
	}
	return nil
}

func (m *mockFileRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.SubmissionFile, error) {
	if m.getByIDWithDetailsFn != nil {
		return m.getByIDWithDetailsFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockFileRepo) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionFile, error) {
	if m.listBySubmissionFn != nil {
		return m.listBySubmissionFn(submissionID)
	}
	return nil, nil
}

func (m *mockFileRepo) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) error {
	if m.deleteBySubmissionFn != nil {
		return m.deleteBySubmissionFn(submissionID)
	}
	return nil
}
