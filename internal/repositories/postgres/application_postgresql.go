package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type ApplicationPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *ApplicationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Create(application).Error
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.ContestApplication, error) {
	db := a.getDB(tx)
	var application models.ContestApplication
	if err := db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (a *ApplicationPostgreSQL) GetByUserAndContest(ctx context.Context, tx *gorm.DB, userID, contestID string) (*models.ContestApplication, error) {
	db := a.getDB(tx)
	var application models.ContestApplication
	if err := db.WithContext(ctx).
		Where("user_id = ? AND contest_id = ?", userID, contestID).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (a *ApplicationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, application *models.ContestApplication) error {
	db := a.getDB(tx)
	return db.WithContext(ctx).Save(application).Error
}

func (a *ApplicationPostgreSQL) ListByContest(ctx context.Context, tx *gorm.DB, contestID string, filters repositories.ApplicationFilters) ([]*models.ContestApplication, int64, error) {
	db := a.getDB(tx)
	var applications []*models.ContestApplication
	var total int64

	query := db.WithContext(ctx).
		Model(&models.ContestApplication{}).
		Where("contest_id = ?", contestID)
	query = a.helpers.ApplyApplicationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = a.helpers.ApplyPaginationAndSort(query, "created_at", "asc", filters.Limit, filters.Offset)

	if err := query.Preload("User").Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}
