package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByIDWithContest(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Preload("Contest").
		Preload("Files").
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Where("user_id = ? AND contest_id = ?", userID, contestID).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) ListByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission
	if err := db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("submitted_at ASC").
		Preload("User").
		Preload("Files").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListScoredByContest returns only submissions that hold an aggregate score,
// ordered for ranking. Ties keep the earlier submission first.
func (s *SubmissionPostgreSQL) ListScoredByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission
	if err := db.WithContext(ctx).
		Where("contest_id = ? AND final_score IS NOT NULL", contestID).
		Order("final_score DESC, submitted_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) ListRankedByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.Submission, error) {
	db := s.getDB(tx)
	var submissions []*models.Submission
	if err := db.WithContext(ctx).
		Where("contest_id = ? AND rank IS NOT NULL", contestID).
		Order("rank ASC, submitted_at ASC").
		Preload("User").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) SetFinalScore(ctx context.Context, tx *gorm.DB, id string, score *float64) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("final_score", score).Error
}

func (s *SubmissionPostgreSQL) SetRank(ctx context.Context, tx *gorm.DB, id string, rank *int) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("rank", rank).Error
}
