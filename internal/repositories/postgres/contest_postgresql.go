package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/cache"
	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type ContestPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewContestPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ContestRepository {
	return &ContestPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *ContestPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *ContestPostgreSQL) Create(ctx context.Context, tx *gorm.DB, contest *models.Contest) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(contest).Error; err != nil {
		return err
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Contest, "list:*")
	return nil
}

func (c *ContestPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Contest, error) {
	db := c.getDB(tx)
	var contest models.Contest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func (c *ContestPostgreSQL) Update(ctx context.Context, tx *gorm.DB, contest *models.Contest) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(contest).Error; err != nil {
		return err
	}
	cache.InvalidateContestCache(ctx, c.cacheManager, contest.ID)
	return nil
}

// AdvanceStatus moves one contest forward only if it still holds the expected
// status, so overlapping passes cannot apply the same transition twice.
func (c *ContestPostgreSQL) AdvanceStatus(ctx context.Context, tx *gorm.DB, id string, from, to models.ContestStatus) (bool, error) {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateContestCache(ctx, c.cacheManager, id)
	}
	return result.RowsAffected > 0, nil
}

func (c *ContestPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContestFilters) ([]*models.Contest, int64, error) {
	db := c.getDB(tx)
	var contests []*models.Contest
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.Contest{})
	query = c.helpers.ApplyContestFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = c.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&contests).Error; err != nil {
		return nil, 0, err
	}

	return contests, total, nil
}

// BulkAdvanceStatus runs a single conditional UPDATE so concurrent sweeps
// cannot move the same contest twice. The deadline column is whitelisted.
func (c *ContestPostgreSQL) BulkAdvanceStatus(ctx context.Context, tx *gorm.DB, from, to models.ContestStatus, deadlineColumn string, now time.Time) (int64, error) {
	if !statusDeadlineColumns[deadlineColumn] {
		return 0, fmt.Errorf("invalid deadline column: %s", deadlineColumn)
	}

	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Contest{}).
		Where("status = ? AND "+deadlineColumn+" <= ?", from, now).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		cache.SafeInvalidatePattern(ctx, c.cacheManager.Contest, "*")
	}
	return result.RowsAffected, nil
}

func (c *ContestPostgreSQL) GetJudgingWithDetails(ctx context.Context, tx *gorm.DB) ([]*models.Contest, error) {
	db := c.getDB(tx)
	var contests []*models.Contest
	if err := db.WithContext(ctx).
		Where("status = ?", models.ContestJudging).
		Preload("Submissions").
		Preload("Submissions.Scores").
		Preload("JuryAssignments").
		Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}
