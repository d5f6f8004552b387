package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type FilePostgreSQL struct {
	db *gorm.DB
}

func NewFilePostgreSQL(db *gorm.DB) repositories.FileRepository {
	return &FilePostgreSQL{db: db}
}

func (f *FilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

func (f *FilePostgreSQL) Create(ctx context.Context, tx *gorm.DB, file *models.SubmissionFile) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Create(file).Error
}

func (f *FilePostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.SubmissionFile, error) {
	db := f.getDB(tx)
	var file models.SubmissionFile
	if err := db.WithContext(ctx).
		Preload("Submission").
		Preload("Submission.Contest").
		Where("id = ?", id).
		First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *FilePostgreSQL) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionFile, error) {
	db := f.getDB(tx)
	var files []*models.SubmissionFile
	if err := db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (f *FilePostgreSQL) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Delete(&models.SubmissionFile{}).Error
}
