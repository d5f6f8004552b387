package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/events"
	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

type juryService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewJuryService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) JuryService {
	return &juryService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

// ScoreSubmission upserts the juror's score, then recomputes the submission's
// aggregate and the whole contest's ranking inside one transaction.
func (s *juryService) ScoreSubmission(ctx context.Context, juryID, submissionID string, req *ScoreRequest) (*ScoreResponse, error) {
	s.logger.Info("Scoring submission", "jury_id", juryID, "submission_id", submissionID, "score", req.Score)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if err := s.requireAssignment(ctx, juryID, submission.ContestID); err != nil {
		return nil, err
	}

	var finalScore *float64
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		score := &models.JuryScore{
			ID:           uuid.New().String(),
			JuryID:       juryID,
			SubmissionID: submissionID,
			Score:        req.Score,
			Comment:      req.Comment,
		}
		if err := txRepo.Jury().UpsertScore(ctx, nil, score); err != nil {
			return fmt.Errorf("failed to upsert score: %w", err)
		}

		scores, err := txRepo.Jury().GetScoresBySubmission(ctx, nil, submissionID)
		if err != nil {
			return fmt.Errorf("failed to load scores: %w", err)
		}

		finalScore = MeanScore(scores)
		if err := txRepo.Submission().SetFinalScore(ctx, nil, submissionID, finalScore); err != nil {
			return fmt.Errorf("failed to set final score: %w", err)
		}

		return RecomputeContestRanks(ctx, txRepo, submission.ContestID)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.SubmissionScored, &events.SubmissionScoredEvent{
		SubmissionID: submissionID,
		ContestID:    submission.ContestID,
		JuryID:       juryID,
		Score:        req.Score,
		FinalScore:   finalScore,
	}))

	return &ScoreResponse{
		SubmissionID: submissionID,
		Score:        req.Score,
		Comment:      req.Comment,
		FinalScore:   finalScore,
	}, nil
}

// GetJurySubmissions lists a contest's submissions for an assigned juror,
// attaching only that juror's own score.
func (s *juryService) GetJurySubmissions(ctx context.Context, juryID, contestID string) ([]*JurySubmissionResponse, error) {
	if err := s.requireAssignment(ctx, juryID, contestID); err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission().ListByContest(ctx, nil, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	submissionIDs := make([]string, len(submissions))
	for i, sub := range submissions {
		submissionIDs[i] = sub.ID
	}

	ownScores, err := s.repo.Jury().GetScoresByJuryAndSubmissions(ctx, nil, juryID, submissionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load jury scores: %w", err)
	}

	responses := make([]*JurySubmissionResponse, len(submissions))
	for i, sub := range submissions {
		resp := &JurySubmissionResponse{
			ID:          sub.ID,
			UserID:      sub.UserID,
			ContestID:   sub.ContestID,
			Title:       sub.Title,
			Description: sub.Description,
			SubmittedAt: sub.SubmittedAt,
			Files:       sub.Files,
		}
		if own, ok := ownScores[sub.ID]; ok {
			resp.MyScore = &own.Score
			resp.MyComment = own.Comment
		}
		responses[i] = resp
	}

	return responses, nil
}

func (s *juryService) AssignJury(ctx context.Context, contestID, juryID, adminID string) (*models.JuryAssignment, error) {
	s.logger.Info("Assigning juror", "contest_id", contestID, "jury_id", juryID, "admin_id", adminID)

	if _, err := s.repo.Contest().GetByID(ctx, nil, contestID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	exists, err := s.repo.User().ExistsByID(ctx, juryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	isJury, err := s.repo.User().HasRole(ctx, juryID, models.RoleJury)
	if err != nil {
		return nil, fmt.Errorf("failed to check user role: %w", err)
	}
	if !isJury {
		return nil, NewBusinessRuleError("user_not_jury", "user does not hold the jury role", map[string]interface{}{
			"user_id":    juryID,
			"contest_id": contestID,
		})
	}

	if _, err := s.repo.Jury().GetAssignment(ctx, nil, juryID, contestID); err == nil {
		return nil, ErrAssignmentExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}

	assignment := &models.JuryAssignment{
		ID:        uuid.New().String(),
		JuryID:    juryID,
		ContestID: contestID,
	}

	if err := s.repo.Jury().CreateAssignment(ctx, nil, assignment); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAssignmentExists
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.JuryAssigned, map[string]interface{}{
		"contest_id": contestID,
		"jury_id":    juryID,
	}))

	return assignment, nil
}

func (s *juryService) ListAssignments(ctx context.Context, contestID string) ([]*models.JuryAssignment, error) {
	assignments, err := s.repo.Jury().ListAssignmentsByContest(ctx, nil, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *juryService) requireAssignment(ctx context.Context, juryID, contestID string) error {
	_, err := s.repo.Jury().GetAssignment(ctx, nil, juryID, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewPermissionError(juryID, contestID, "contest", "judge", "no jury assignment for this contest")
		}
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	return nil
}

func (s *juryService) publishEvent(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

// ===== AGGREGATION HELPERS =====

// MeanScore returns the arithmetic mean of the given scores, or nil when
// there are none.
func MeanScore(scores []*models.JuryScore) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0.0
	for _, score := range scores {
		sum += score.Score
	}
	mean := sum / float64(len(scores))
	return &mean
}

// ComputeRanks assigns gapless ranks 1..N over submissions already sorted
// by final score descending. Tied scores keep their sort position, so every
// scored submission gets a distinct rank.
func ComputeRanks(scored []*models.Submission) []int {
	ranks := make([]int, len(scored))
	for i := range scored {
		ranks[i] = i + 1
	}
	return ranks
}

// RecomputeContestRanks rewrites the rank column for one contest: scored
// submissions get ranks 1..N by descending final score with ties broken by
// submission time, unscored submissions get nil. Must run inside the same
// transaction as the score change it follows.
func RecomputeContestRanks(ctx context.Context, repo repositories.Repository, contestID string) error {
	scored, err := repo.Submission().ListScoredByContest(ctx, nil, contestID)
	if err != nil {
		return fmt.Errorf("failed to list scored submissions: %w", err)
	}

	ranks := ComputeRanks(scored)
	rankedIDs := make(map[string]bool, len(scored))
	for i, sub := range scored {
		rank := ranks[i]
		if err := repo.Submission().SetRank(ctx, nil, sub.ID, &rank); err != nil {
			return fmt.Errorf("failed to set rank: %w", err)
		}
		rankedIDs[sub.ID] = true
	}

	all, err := repo.Submission().ListByContest(ctx, nil, contestID)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}
	for _, sub := range all {
		if rankedIDs[sub.ID] {
			continue
		}
		if sub.Rank != nil {
			if err := repo.Submission().SetRank(ctx, nil, sub.ID, nil); err != nil {
				return fmt.Errorf("failed to clear rank: %w", err)
			}
		}
	}

	return nil
}
