package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contest-platform/contest-service/internal/cache"
	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type JuryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewJuryPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.JuryRepository {
	return &JuryPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (j *JuryPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return j.db
}

func (j *JuryPostgreSQL) CreateAssignment(ctx context.Context, tx *gorm.DB, assignment *models.JuryAssignment) error {
	db := j.getDB(tx)
	if err := db.WithContext(ctx).Create(assignment).Error; err != nil {
		return err
	}
	j.invalidateAssignmentCache(ctx, assignment.JuryID, assignment.ContestID)
	return nil
}

func (j *JuryPostgreSQL) GetAssignment(ctx context.Context, tx *gorm.DB, juryID, contestID string) (*models.JuryAssignment, error) {
	db := j.getDB(tx)
	cacheKey := fmt.Sprintf("jury:%s:contest:%s", juryID, contestID)

	var assignment models.JuryAssignment
	err := j.cacheManager.Assignment.CacheOrExecute(ctx, cacheKey, &assignment, cache.AssignmentCacheConfig.TTL, func() (interface{}, error) {
		var a models.JuryAssignment
		if err := db.WithContext(ctx).
			Where("jury_id = ? AND contest_id = ?", juryID, contestID).
			First(&a).Error; err != nil {
			return nil, err
		}
		return &a, nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (j *JuryPostgreSQL) ListAssignmentsByContest(ctx context.Context, tx *gorm.DB, contestID string) ([]*models.JuryAssignment, error) {
	db := j.getDB(tx)
	var assignments []*models.JuryAssignment
	if err := db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Preload("Jury").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// UpsertScore inserts a juror's score or overwrites the previous one for the
// same (jury, submission) pair.
func (j *JuryPostgreSQL) UpsertScore(ctx context.Context, tx *gorm.DB, score *models.JuryScore) error {
	db := j.getDB(tx)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "jury_id"}, {Name: "submission_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score":      score.Score,
				"comment":    score.Comment,
				"updated_at": time.Now(),
			}),
		}).
		Create(score).Error
}

func (j *JuryPostgreSQL) GetScoresBySubmission(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.JuryScore, error) {
	db := j.getDB(tx)
	var scores []*models.JuryScore
	if err := db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (j *JuryPostgreSQL) GetScoresByJuryAndSubmissions(ctx context.Context, tx *gorm.DB, juryID string, submissionIDs []string) (map[string]*models.JuryScore, error) {
	db := j.getDB(tx)
	if len(submissionIDs) == 0 {
		return map[string]*models.JuryScore{}, nil
	}

	var scores []*models.JuryScore
	if err := db.WithContext(ctx).
		Where("jury_id = ? AND submission_id IN ?", juryID, submissionIDs).
		Find(&scores).Error; err != nil {
		return nil, err
	}

	result := make(map[string]*models.JuryScore, len(scores))
	for _, s := range scores {
		result[s.SubmissionID] = s
	}
	return result, nil
}

func (j *JuryPostgreSQL) invalidateAssignmentCache(ctx context.Context, juryID, contestID string) {
	cacheKey := fmt.Sprintf("jury:%s:contest:%s", juryID, contestID)
	cache.SafeDelete(ctx, j.cacheManager.Assignment, cacheKey)
}
