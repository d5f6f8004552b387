package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/events"
	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

type contestService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher

	// now is swappable in tests.
	now func() time.Time
}

func NewContestService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ContestService {
	return &contestService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
		now:            time.Now,
	}
}

// ===== CRUD =====

func (s *contestService) Create(ctx context.Context, req *CreateContestRequest, creatorID string) (*models.Contest, error) {
	s.logger.Info("Creating contest", "creator_id", creatorID, "title", req.Title)

	if errs := s.validator.GetBusinessValidator().ValidateContestCreate(req); len(errs) > 0 {
		return nil, errs
	}

	maxFileSize := models.DefaultMaxFileSize
	if req.MaxFileSize != nil {
		maxFileSize = *req.MaxFileSize
	}

	contest := &models.Contest{
		ID:               uuid.New().String(),
		Title:            req.Title,
		Description:      req.Description,
		Status:           models.ContestDraft,
		ApplicationStart: req.ApplicationStart,
		ApplicationEnd:   req.ApplicationEnd,
		TopicRevealAt:    req.TopicRevealAt,
		SubmissionEnd:    req.SubmissionEnd,
		JudgingEnd:       req.JudgingEnd,
		RequiresApproval: req.RequiresApproval,
		MaxFileSize:      maxFileSize,
		CreatedBy:        creatorID,
	}

	if err := s.repo.Contest().Create(ctx, nil, contest); err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.ContestCreated, map[string]interface{}{
		"contest_id": contest.ID,
		"title":      contest.Title,
	}))

	s.logger.Info("Contest created", "contest_id", contest.ID)
	return contest, nil
}

func (s *contestService) GetByID(ctx context.Context, id string, userID string) (*ContestResponse, error) {
	contest, err := s.repo.Contest().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	resp := &ContestResponse{Contest: contest}
	if userID != "" {
		now := s.now()
		resp.CanApply = contest.Status == models.ContestApplications &&
			!now.Before(contest.ApplicationStart) && !now.After(contest.ApplicationEnd)
		if canSubmit, err := s.CanUserSubmit(ctx, id, userID); err == nil {
			resp.CanSubmit = canSubmit
		}
	}
	return resp, nil
}

func (s *contestService) List(ctx context.Context, filters repositories.ContestFilters) (*ContestListResponse, error) {
	contests, total, err := s.repo.Contest().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}

	return &ContestListResponse{
		Contests: contests,
		Total:    total,
		Limit:    filters.Limit,
		Offset:   filters.Offset,
	}, nil
}

func (s *contestService) Update(ctx context.Context, id string, req *UpdateContestRequest, userID string) (*models.Contest, error) {
	s.logger.Info("Updating contest", "contest_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	contest, err := s.repo.Contest().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	timelineTouched := req.ApplicationStart != nil || req.ApplicationEnd != nil ||
		req.TopicRevealAt != nil || req.SubmissionEnd != nil || req.JudgingEnd != nil
	if timelineTouched && contest.Status != models.ContestDraft {
		return nil, NewBusinessRuleError("contest_timeline_locked",
			"timeline can only be changed while the contest is a draft",
			map[string]interface{}{"status": contest.Status})
	}

	if req.Title != nil {
		contest.Title = *req.Title
	}
	if req.Description != nil {
		contest.Description = *req.Description
	}
	if req.ApplicationStart != nil {
		contest.ApplicationStart = *req.ApplicationStart
	}
	if req.ApplicationEnd != nil {
		contest.ApplicationEnd = *req.ApplicationEnd
	}
	if req.TopicRevealAt != nil {
		contest.TopicRevealAt = *req.TopicRevealAt
	}
	if req.SubmissionEnd != nil {
		contest.SubmissionEnd = *req.SubmissionEnd
	}
	if req.JudgingEnd != nil {
		contest.JudgingEnd = req.JudgingEnd
	}
	if req.RequiresApproval != nil {
		contest.RequiresApproval = *req.RequiresApproval
	}
	if req.MaxFileSize != nil {
		contest.MaxFileSize = *req.MaxFileSize
	}

	if errs := s.validator.GetBusinessValidator().ValidateContestTimeline(
		contest.ApplicationStart, contest.ApplicationEnd, contest.TopicRevealAt,
		contest.SubmissionEnd, contest.JudgingEnd); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Contest().Update(ctx, nil, contest); err != nil {
		return nil, fmt.Errorf("failed to update contest: %w", err)
	}

	return contest, nil
}

// ===== APPLICATIONS =====

func (s *contestService) Apply(ctx context.Context, contestID, userID string, req *ApplyRequest) (*ApplicationResponse, error) {
	s.logger.Info("Processing contest application", "contest_id", contestID, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	contest, err := s.repo.Contest().GetByID(ctx, nil, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	now := s.now()
	if contest.Status != models.ContestApplications {
		return nil, NewBusinessRuleError("applications_closed",
			"contest is not accepting applications",
			map[string]interface{}{"status": contest.Status})
	}
	if now.Before(contest.ApplicationStart) || now.After(contest.ApplicationEnd) {
		return nil, NewBusinessRuleError("outside_application_window",
			"applications are only accepted within the application window",
			map[string]interface{}{
				"application_start": contest.ApplicationStart,
				"application_end":   contest.ApplicationEnd,
			})
	}

	if _, err := s.repo.Application().GetByUserAndContest(ctx, nil, userID, contestID); err == nil {
		return nil, ErrApplicationExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	status := models.ApplicationApproved
	if contest.RequiresApproval {
		status = models.ApplicationPending
	}

	application := &models.ContestApplication{
		ID:        uuid.New().String(),
		UserID:    userID,
		ContestID: contestID,
		Message:   req.Message,
		Status:    status,
	}

	if err := s.repo.Application().Create(ctx, nil, application); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrApplicationExists
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.ApplicationReceived, &events.ApplicationReceivedEvent{
		ApplicationID: application.ID,
		ContestID:     contestID,
		UserID:        userID,
		Status:        string(status),
	}))

	return &ApplicationResponse{ContestApplication: application}, nil
}

func (s *contestService) ReviewApplication(ctx context.Context, applicationID string, req *ReviewApplicationRequest, reviewerID string) (*ApplicationResponse, error) {
	s.logger.Info("Reviewing application", "application_id", applicationID, "reviewer_id", reviewerID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	application, err := s.repo.Application().GetByID(ctx, nil, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if application.Status != models.ApplicationPending {
		return nil, NewBusinessRuleError("application_already_reviewed",
			"only pending applications can be reviewed",
			map[string]interface{}{"status": application.Status})
	}

	application.Status = models.ApplicationStatus(req.Status)
	if err := s.repo.Application().Update(ctx, nil, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.ApplicationReviewed, map[string]interface{}{
		"application_id": application.ID,
		"contest_id":     application.ContestID,
		"status":         application.Status,
		"reviewer_id":    reviewerID,
	}))

	return &ApplicationResponse{ContestApplication: application}, nil
}

func (s *contestService) ListApplications(ctx context.Context, contestID string, filters repositories.ApplicationFilters) (*ApplicationListResponse, error) {
	applications, total, err := s.repo.Application().ListByContest(ctx, nil, contestID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	items := make([]*ApplicationListItem, len(applications))
	for i, app := range applications {
		items[i] = &ApplicationListItem{
			ContestApplication: app,
			Applicant: models.UserSummary{
				ID:          app.User.ID,
				Username:    app.User.Username,
				DisplayName: app.User.DisplayName,
			},
		}
	}

	return &ApplicationListResponse{Applications: items, Total: total}, nil
}

// ===== SUBMISSIONS =====

// CanUserSubmit is evaluated fresh on every call: the contest must be ACTIVE,
// the user's application APPROVED, and the clock inside
// [topicRevealAt, submissionEnd].
func (s *contestService) CanUserSubmit(ctx context.Context, contestID, userID string) (bool, error) {
	contest, err := s.repo.Contest().GetByID(ctx, nil, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrContestNotFound
		}
		return false, fmt.Errorf("failed to get contest: %w", err)
	}

	if contest.Status != models.ContestActive {
		return false, nil
	}

	now := s.now()
	if now.Before(contest.TopicRevealAt) || now.After(contest.SubmissionEnd) {
		return false, nil
	}

	application, err := s.repo.Application().GetByUserAndContest(ctx, nil, userID, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get application: %w", err)
	}

	return application.Status == models.ApplicationApproved, nil
}

func (s *contestService) CreateSubmission(ctx context.Context, contestID string, req *CreateSubmissionRequest, userID string) (*SubmissionResponse, error) {
	s.logger.Info("Creating submission", "contest_id", contestID, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	canSubmit, err := s.CanUserSubmit(ctx, contestID, userID)
	if err != nil {
		return nil, err
	}
	if !canSubmit {
		return nil, NewPermissionError(userID, contestID, "contest", "submit",
			"submissions require an active contest, an approved application and an open submission window")
	}

	if _, err := s.repo.Submission().GetByUserAndContest(ctx, nil, userID, contestID); err == nil {
		return nil, ErrSubmissionExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing submission: %w", err)
	}

	submission := &models.Submission{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContestID:   contestID,
		Title:       req.Title,
		Description: req.Description,
		SubmittedAt: s.now(),
	}

	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrSubmissionExists
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.SubmissionCreated, map[string]interface{}{
		"submission_id": submission.ID,
		"contest_id":    contestID,
		"user_id":       userID,
	}))

	return &SubmissionResponse{Submission: submission}, nil
}

// ===== LIFECYCLE =====

func (s *contestService) StartJudging(ctx context.Context, contestID, adminID string) (*models.Contest, error) {
	s.logger.Info("Starting judging", "contest_id", contestID, "admin_id", adminID)

	contest, err := s.repo.Contest().GetByID(ctx, nil, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	if contest.Status != models.ContestSubmissionClosed {
		return nil, ErrInvalidTransition
	}

	advanced, err := s.repo.Contest().AdvanceStatus(ctx, nil, contestID, models.ContestSubmissionClosed, models.ContestJudging)
	if err != nil {
		return nil, fmt.Errorf("failed to update contest status: %w", err)
	}
	if !advanced {
		return nil, ErrInvalidTransition
	}

	contest.Status = models.ContestJudging
	s.publishStatusChange(ctx, contestID, models.ContestSubmissionClosed, models.ContestJudging)

	return contest, nil
}

// SweepStatuses advances every due contest. The timed transitions are single
// conditional UPDATEs, so concurrent sweeps are harmless. JUDGING contests are
// completed when fully scored or past their judging deadline, computing final
// rankings first.
func (s *contestService) SweepStatuses(ctx context.Context) (*SweepResult, error) {
	now := s.now()
	result := &SweepResult{}

	transitions := []struct {
		from, to models.ContestStatus
		column   string
		counter  *int64
	}{
		{models.ContestDraft, models.ContestApplications, "application_start", &result.ApplicationsOpened},
		{models.ContestApplications, models.ContestActive, "topic_reveal_at", &result.Activated},
		{models.ContestActive, models.ContestSubmissionClosed, "submission_end", &result.SubmissionsClosed},
	}

	for _, tr := range transitions {
		affected, err := s.repo.Contest().BulkAdvanceStatus(ctx, nil, tr.from, tr.to, tr.column, now)
		if err != nil {
			return result, fmt.Errorf("failed to advance %s contests: %w", tr.from, err)
		}
		*tr.counter = affected
		if affected > 0 {
			s.logger.Info("Contests advanced", "from", tr.from, "to", tr.to, "count", affected)
		}
	}

	completed, err := s.completeJudgedContests(ctx, now)
	if err != nil {
		return result, err
	}
	result.Completed = completed

	return result, nil
}

func (s *contestService) completeJudgedContests(ctx context.Context, now time.Time) (int, error) {
	contests, err := s.repo.Contest().GetJudgingWithDetails(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load judging contests: %w", err)
	}

	completed := 0
	for _, contest := range contests {
		deadlinePassed := contest.JudgingEnd != nil && !now.Before(*contest.JudgingEnd)
		if !deadlinePassed && !fullyScored(contest) {
			continue
		}

		finalized, err := s.finalizeContest(ctx, contest.ID)
		if err != nil {
			s.logger.Error("Failed to complete contest", "contest_id", contest.ID, "error", err)
			continue
		}
		if finalized {
			completed++
		}
	}

	return completed, nil
}

// fullyScored reports whether every submission carries a score from every
// assigned juror. Contests with no submissions or no jurors are never
// considered fully scored; they complete on the judging deadline.
func fullyScored(contest *models.Contest) bool {
	if len(contest.Submissions) == 0 || len(contest.JuryAssignments) == 0 {
		return false
	}

	for _, submission := range contest.Submissions {
		scoredBy := make(map[string]bool, len(submission.Scores))
		for _, score := range submission.Scores {
			scoredBy[score.JuryID] = true
		}
		for _, assignment := range contest.JuryAssignments {
			if !scoredBy[assignment.JuryID] {
				return false
			}
		}
	}
	return true
}

// finalizeContest flips the contest from JUDGING to COMPLETED and recomputes
// rankings in one transaction. The guarded status update makes overlapping
// completion passes a no-op, so the status-changed event fires at most once.
func (s *contestService) finalizeContest(ctx context.Context, contestID string) (bool, error) {
	advanced := false
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		advanced, err = txRepo.Contest().AdvanceStatus(ctx, nil, contestID, models.ContestJudging, models.ContestCompleted)
		if err != nil || !advanced {
			return err
		}
		return RecomputeContestRanks(ctx, txRepo, contestID)
	})
	if err != nil || !advanced {
		return false, err
	}

	s.publishStatusChange(ctx, contestID, models.ContestJudging, models.ContestCompleted)
	s.logger.Info("Contest completed", "contest_id", contestID)
	return true, nil
}

func (s *contestService) publishStatusChange(ctx context.Context, contestID string, from, to models.ContestStatus) {
	s.publishEvent(ctx, events.NewEvent(events.ContestStatusChanged, &events.ContestStatusChangedEvent{
		ContestID: contestID,
		From:      string(from),
		To:        string(to),
	}))
}

func (s *contestService) publishEvent(ctx context.Context, event *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
