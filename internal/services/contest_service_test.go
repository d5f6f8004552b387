package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contest-platform/contest-service/internal/events"
	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

func newTestContestService(repo repositories.Repository, publisher events.EventPublisher, now time.Time) *contestService {
	svc := NewContestService(repo, nil, testLogger(), validator.New(), publisher).(*contestService)
	svc.now = func() time.Time { return now }
	return svc
}

func activeContest() *models.Contest {
	judgingEnd := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	return &models.Contest{
		ID:               "contest-1",
		Title:            "Winter Render Challenge",
		Status:           models.ContestActive,
		ApplicationStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ApplicationEnd:   time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC),
		TopicRevealAt:    time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		SubmissionEnd:    time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		JudgingEnd:       &judgingEnd,
		MaxFileSize:      models.DefaultMaxFileSize,
	}
}

func TestCanUserSubmit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		now           time.Time
		contestStatus models.ContestStatus
		application   *models.ContestApplication
		want          bool
	}{
		{
			name:          "approved applicant inside window",
			now:           time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          true,
		},
		{
			name:          "before topic reveal",
			now:           time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          false,
		},
		{
			name:          "after submission end",
			now:           time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          false,
		},
		{
			name:          "exactly at topic reveal",
			now:           time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          true,
		},
		{
			name:          "exactly at submission end",
			now:           time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          true,
		},
		{
			name:          "contest not active",
			now:           time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestSubmissionClosed,
			application:   &models.ContestApplication{Status: models.ApplicationApproved},
			want:          false,
		},
		{
			name:          "pending application",
			now:           time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationPending},
			want:          false,
		},
		{
			name:          "rejected application",
			now:           time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   &models.ContestApplication{Status: models.ApplicationRejected},
			want:          false,
		},
		{
			name:          "no application",
			now:           time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
			contestStatus: models.ContestActive,
			application:   nil,
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
				contest := activeContest()
				contest.Status = tt.contestStatus
				return contest, nil
			}
			repo.application.getByUserAndContestFn = func(userID, contestID string) (*models.ContestApplication, error) {
				if tt.application == nil {
					return nil, repositories.ErrNotFound
				}
				return tt.application, nil
			}

			svc := newTestContestService(repo, nil, tt.now)
			got, err := svc.CanUserSubmit(ctx, "contest-1", "user-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("unknown contest", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestContestService(repo, nil, time.Now())

		_, err := svc.CanUserSubmit(ctx, "missing", "user-1")
		if !errors.Is(err, ErrContestNotFound) {
			t.Fatalf("expected ErrContestNotFound, got %v", err)
		}
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	inWindow := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	applicationsContest := func() *models.Contest {
		contest := activeContest()
		contest.Status = models.ContestApplications
		return contest
	}

	t.Run("auto approval when not required", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return applicationsContest(), nil }

		svc := newTestContestService(repo, publisher, inWindow)
		resp, err := svc.Apply(ctx, "contest-1", "user-1", &ApplyRequest{Message: "count me in"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.ApplicationApproved {
			t.Errorf("expected APPROVED, got %s", resp.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.ApplicationReceived {
			t.Errorf("expected one %s event, got %v", events.ApplicationReceived, published)
		}
	})

	t.Run("pending when approval required", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
			contest := applicationsContest()
			contest.RequiresApproval = true
			return contest, nil
		}

		svc := newTestContestService(repo, nil, inWindow)
		resp, err := svc.Apply(ctx, "contest-1", "user-1", &ApplyRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.ApplicationPending {
			t.Errorf("expected PENDING, got %s", resp.Status)
		}
	})

	t.Run("rejected outside application window", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return applicationsContest(), nil }

		svc := newTestContestService(repo, nil, time.Date(2025, 1, 4, 0, 0, 1, 0, time.UTC))
		_, err := svc.Apply(ctx, "contest-1", "user-1", &ApplyRequest{})
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "outside_application_window" {
			t.Errorf("expected rule %q, got %q", "outside_application_window", ruleErr.Rule)
		}
	})

	t.Run("rejected when contest not accepting applications", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }

		svc := newTestContestService(repo, nil, inWindow)
		_, err := svc.Apply(ctx, "contest-1", "user-1", &ApplyRequest{})
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "applications_closed" {
			t.Errorf("expected rule %q, got %q", "applications_closed", ruleErr.Rule)
		}
	})

	t.Run("duplicate application", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return applicationsContest(), nil }
		repo.application.getByUserAndContestFn = func(userID, contestID string) (*models.ContestApplication, error) {
			return &models.ContestApplication{UserID: userID, ContestID: contestID}, nil
		}

		svc := newTestContestService(repo, nil, inWindow)
		_, err := svc.Apply(ctx, "contest-1", "user-1", &ApplyRequest{})
		if !errors.Is(err, ErrApplicationExists) {
			t.Fatalf("expected ErrApplicationExists, got %v", err)
		}
	})
}

func TestReviewApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("approves a pending application", func(t *testing.T) {
		repo := newMockRepository()
		repo.application.getByIDFn = func(id string) (*models.ContestApplication, error) {
			return &models.ContestApplication{ID: id, ContestID: "contest-1", Status: models.ApplicationPending}, nil
		}

		var updated *models.ContestApplication
		repo.application.updateFn = func(application *models.ContestApplication) error {
			updated = application
			return nil
		}

		svc := newTestContestService(repo, nil, time.Now())
		resp, err := svc.ReviewApplication(ctx, "app-1", &ReviewApplicationRequest{Status: "APPROVED"}, "admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Status != models.ApplicationApproved {
			t.Errorf("expected APPROVED, got %s", resp.Status)
		}
		if updated == nil || updated.Status != models.ApplicationApproved {
			t.Errorf("expected update with APPROVED, got %+v", updated)
		}
	})

	t.Run("rejects re-review", func(t *testing.T) {
		repo := newMockRepository()
		repo.application.getByIDFn = func(id string) (*models.ContestApplication, error) {
			return &models.ContestApplication{ID: id, Status: models.ApplicationApproved}, nil
		}

		svc := newTestContestService(repo, nil, time.Now())
		_, err := svc.ReviewApplication(ctx, "app-1", &ReviewApplicationRequest{Status: "REJECTED"}, "admin-1")
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "application_already_reviewed" {
			t.Errorf("expected rule %q, got %q", "application_already_reviewed", ruleErr.Rule)
		}
	})

	t.Run("rejects invalid status values", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestContestService(repo, nil, time.Now())

		_, err := svc.ReviewApplication(ctx, "app-1", &ReviewApplicationRequest{Status: "MAYBE"}, "admin-1")
		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected ValidationErrors, got %v", err)
		}
	})
}

func TestUpdateContest(t *testing.T) {
	ctx := context.Background()
	newEnd := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	t.Run("timeline locked after draft", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }

		svc := newTestContestService(repo, nil, time.Now())
		_, err := svc.Update(ctx, "contest-1", &UpdateContestRequest{SubmissionEnd: &newEnd}, "admin-1")
		var ruleErr *BusinessRuleError
		if !errors.As(err, &ruleErr) {
			t.Fatalf("expected BusinessRuleError, got %v", err)
		}
		if ruleErr.Rule != "contest_timeline_locked" {
			t.Errorf("expected rule %q, got %q", "contest_timeline_locked", ruleErr.Rule)
		}
	})

	t.Run("timeline editable while draft", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
			contest := activeContest()
			contest.Status = models.ContestDraft
			return contest, nil
		}

		svc := newTestContestService(repo, nil, time.Now())
		contest, err := svc.Update(ctx, "contest-1", &UpdateContestRequest{SubmissionEnd: &newEnd}, "admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !contest.SubmissionEnd.Equal(newEnd) {
			t.Errorf("expected submission end %v, got %v", newEnd, contest.SubmissionEnd)
		}
	})

	t.Run("merged timeline is revalidated", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
			contest := activeContest()
			contest.Status = models.ContestDraft
			return contest, nil
		}

		badEnd := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) // before topic reveal
		svc := newTestContestService(repo, nil, time.Now())
		_, err := svc.Update(ctx, "contest-1", &UpdateContestRequest{SubmissionEnd: &badEnd}, "admin-1")
		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected ValidationErrors, got %v", err)
		}
	})

	t.Run("non-timeline fields editable anytime", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }

		title := "Renamed Challenge"
		svc := newTestContestService(repo, nil, time.Now())
		contest, err := svc.Update(ctx, "contest-1", &UpdateContestRequest{Title: &title}, "admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if contest.Title != title {
			t.Errorf("expected title %q, got %q", title, contest.Title)
		}
	})
}

func TestStartJudging(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions from submission closed", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
			contest := activeContest()
			contest.Status = models.ContestSubmissionClosed
			return contest, nil
		}

		var fromStatus, toStatus models.ContestStatus
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			fromStatus, toStatus = from, to
			return true, nil
		}

		svc := newTestContestService(repo, publisher, time.Now())
		contest, err := svc.StartJudging(ctx, "contest-1", "admin-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if contest.Status != models.ContestJudging || toStatus != models.ContestJudging {
			t.Errorf("expected JUDGING, got %s (stored %s)", contest.Status, toStatus)
		}
		if fromStatus != models.ContestSubmissionClosed {
			t.Errorf("expected transition from SUBMISSION_CLOSED, got %s", fromStatus)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.ContestStatusChanged {
			t.Errorf("expected one %s event, got %v", events.ContestStatusChanged, published)
		}
	})

	t.Run("rejected from any other status", func(t *testing.T) {
		for _, status := range []models.ContestStatus{
			models.ContestDraft, models.ContestApplications, models.ContestActive,
			models.ContestJudging, models.ContestCompleted,
		} {
			repo := newMockRepository()
			repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
				contest := activeContest()
				contest.Status = status
				return contest, nil
			}

			svc := newTestContestService(repo, nil, time.Now())
			if _, err := svc.StartJudging(ctx, "contest-1", "admin-1"); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("status %s: expected ErrInvalidTransition, got %v", status, err)
			}
		}
	})

	t.Run("rejected when the status moved between read and write", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) {
			contest := activeContest()
			contest.Status = models.ContestSubmissionClosed
			return contest, nil
		}
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			return false, nil
		}

		svc := newTestContestService(repo, publisher, time.Now())
		if _, err := svc.StartJudging(ctx, "contest-1", "admin-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if published := publisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("expected no events, got %v", published)
		}
	})
}

func TestSweepStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("runs each timed transition once", func(t *testing.T) {
		repo := newMockRepository()
		now := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

		type advance struct {
			from, to models.ContestStatus
			column   string
		}
		var calls []advance
		repo.contest.bulkAdvanceFn = func(from, to models.ContestStatus, column string, at time.Time) (int64, error) {
			if !at.Equal(now) {
				t.Errorf("expected sweep time %v, got %v", now, at)
			}
			calls = append(calls, advance{from, to, column})
			if from == models.ContestDraft {
				return 2, nil
			}
			return 0, nil
		}

		svc := newTestContestService(repo, nil, now)
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []advance{
			{models.ContestDraft, models.ContestApplications, "application_start"},
			{models.ContestApplications, models.ContestActive, "topic_reveal_at"},
			{models.ContestActive, models.ContestSubmissionClosed, "submission_end"},
		}
		if len(calls) != len(want) {
			t.Fatalf("expected %d transitions, got %d", len(want), len(calls))
		}
		for i, w := range want {
			if calls[i] != w {
				t.Errorf("transition %d: expected %+v, got %+v", i, w, calls[i])
			}
		}

		if result.ApplicationsOpened != 2 || result.Activated != 0 || result.SubmissionsClosed != 0 || result.Completed != 0 {
			t.Errorf("unexpected sweep result %+v", result)
		}
	})

	t.Run("no eligible contests leaves everything untouched", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())

		var statusWrites int
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			statusWrites++
			return true, nil
		}

		svc := newTestContestService(repo, publisher, time.Now())
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ApplicationsOpened != 0 || result.Activated != 0 || result.SubmissionsClosed != 0 || result.Completed != 0 {
			t.Errorf("unexpected sweep result %+v", result)
		}
		if statusWrites != 0 {
			t.Errorf("expected no status writes, got %d", statusWrites)
		}
		if published := publisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("expected no events, got %v", published)
		}
	})

	t.Run("completes fully scored judging contests", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

		contest := activeContest()
		contest.Status = models.ContestJudging
		contest.JuryAssignments = []models.JuryAssignment{{JuryID: "jury-1"}, {JuryID: "jury-2"}}
		contest.Submissions = []models.Submission{
			{ID: "sub-a", FinalScore: floatPtr(85), Scores: []models.JuryScore{{JuryID: "jury-1", Score: 80}, {JuryID: "jury-2", Score: 90}}},
			{ID: "sub-b", FinalScore: floatPtr(70), Scores: []models.JuryScore{{JuryID: "jury-1", Score: 60}, {JuryID: "jury-2", Score: 80}}},
		}

		repo.contest.judgingWithDetailFn = func() ([]*models.Contest, error) {
			return []*models.Contest{contest}, nil
		}
		repo.submission.listScoredFn = func(contestID string) ([]*models.Submission, error) {
			return []*models.Submission{&contest.Submissions[0], &contest.Submissions[1]}, nil
		}
		repo.submission.listByContestFn = func(contestID string) ([]*models.Submission, error) {
			return []*models.Submission{&contest.Submissions[0], &contest.Submissions[1]}, nil
		}

		ranks := map[string]*int{}
		repo.submission.setRankFn = func(id string, rank *int) error {
			ranks[id] = rank
			return nil
		}
		var fromStatus, finalStatus models.ContestStatus
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			fromStatus, finalStatus = from, to
			return true, nil
		}

		svc := newTestContestService(repo, publisher, now)
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Completed != 1 {
			t.Errorf("expected 1 completed contest, got %d", result.Completed)
		}
		if fromStatus != models.ContestJudging || finalStatus != models.ContestCompleted {
			t.Errorf("expected JUDGING to COMPLETED, got %s to %s", fromStatus, finalStatus)
		}
		if ranks["sub-a"] == nil || *ranks["sub-a"] != 1 || ranks["sub-b"] == nil || *ranks["sub-b"] != 2 {
			t.Errorf("unexpected ranks %v", ranks)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.ContestStatusChanged {
			t.Fatalf("expected one %s event, got %v", events.ContestStatusChanged, published)
		}
	})

	t.Run("already completed contest is not finalized again", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())

		contest := activeContest()
		contest.Status = models.ContestJudging
		contest.JuryAssignments = []models.JuryAssignment{{JuryID: "jury-1"}}
		contest.Submissions = []models.Submission{
			{ID: "sub-a", FinalScore: floatPtr(85), Scores: []models.JuryScore{{JuryID: "jury-1", Score: 85}}},
		}

		repo.contest.judgingWithDetailFn = func() ([]*models.Contest, error) {
			return []*models.Contest{contest}, nil
		}
		// A concurrent pass already moved the contest past JUDGING.
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			return false, nil
		}
		var rankWrites int
		repo.submission.setRankFn = func(id string, rank *int) error {
			rankWrites++
			return nil
		}

		svc := newTestContestService(repo, publisher, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Completed != 0 {
			t.Errorf("expected no completions, got %d", result.Completed)
		}
		if rankWrites != 0 {
			t.Errorf("expected no rank writes, got %d", rankWrites)
		}
		if published := publisher.GetPublishedEvents(); len(published) != 0 {
			t.Errorf("expected no events, got %v", published)
		}
	})

	t.Run("partially scored contest stays in judging until the deadline", func(t *testing.T) {
		repo := newMockRepository()
		contest := activeContest()
		contest.Status = models.ContestJudging
		contest.JuryAssignments = []models.JuryAssignment{{JuryID: "jury-1"}, {JuryID: "jury-2"}}
		contest.Submissions = []models.Submission{
			{ID: "sub-a", Scores: []models.JuryScore{{JuryID: "jury-1", Score: 80}}},
		}

		repo.contest.judgingWithDetailFn = func() ([]*models.Contest, error) {
			return []*models.Contest{contest}, nil
		}
		var statusWrites int
		repo.contest.advanceStatusFn = func(id string, from, to models.ContestStatus) (bool, error) {
			statusWrites++
			return true, nil
		}

		// Before the judging deadline.
		svc := newTestContestService(repo, nil, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Completed != 0 || statusWrites != 0 {
			t.Errorf("expected no completion before deadline, got %+v with %d writes", result, statusWrites)
		}

		// Past the judging deadline the contest completes regardless.
		svc = newTestContestService(repo, nil, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
		result, err = svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Completed != 1 {
			t.Errorf("expected completion after deadline, got %+v", result)
		}
	})

	t.Run("contest with no submissions waits for the deadline", func(t *testing.T) {
		repo := newMockRepository()
		contest := activeContest()
		contest.Status = models.ContestJudging
		contest.JuryAssignments = []models.JuryAssignment{{JuryID: "jury-1"}}

		repo.contest.judgingWithDetailFn = func() ([]*models.Contest, error) {
			return []*models.Contest{contest}, nil
		}

		svc := newTestContestService(repo, nil, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
		result, err := svc.SweepStatuses(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Completed != 0 {
			t.Errorf("expected no completion, got %d", result.Completed)
		}
	})
}

func TestFullyScored(t *testing.T) {
	tests := []struct {
		name        string
		submissions []models.Submission
		jurors      []models.JuryAssignment
		want        bool
	}{
		{
			name: "every juror scored every submission",
			submissions: []models.Submission{
				{Scores: []models.JuryScore{{JuryID: "a"}, {JuryID: "b"}}},
				{Scores: []models.JuryScore{{JuryID: "a"}, {JuryID: "b"}}},
			},
			jurors: []models.JuryAssignment{{JuryID: "a"}, {JuryID: "b"}},
			want:   true,
		},
		{
			name: "one juror missing on one submission",
			submissions: []models.Submission{
				{Scores: []models.JuryScore{{JuryID: "a"}, {JuryID: "b"}}},
				{Scores: []models.JuryScore{{JuryID: "a"}}},
			},
			jurors: []models.JuryAssignment{{JuryID: "a"}, {JuryID: "b"}},
			want:   false,
		},
		{
			name:   "no submissions",
			jurors: []models.JuryAssignment{{JuryID: "a"}},
			want:   false,
		},
		{
			name:        "no jurors",
			submissions: []models.Submission{{Scores: []models.JuryScore{{JuryID: "a"}}}},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contest := &models.Contest{Submissions: tt.submissions, JuryAssignments: tt.jurors}
			if got := fullyScored(contest); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCreateSubmission(t *testing.T) {
	ctx := context.Background()
	inWindow := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	t.Run("creates when allowed", func(t *testing.T) {
		repo := newMockRepository()
		publisher := events.NewMockEventPublisher(testLogger())
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }
		repo.application.getByUserAndContestFn = func(userID, contestID string) (*models.ContestApplication, error) {
			return &models.ContestApplication{Status: models.ApplicationApproved}, nil
		}

		svc := newTestContestService(repo, publisher, inWindow)
		resp, err := svc.CreateSubmission(ctx, "contest-1", &CreateSubmissionRequest{Title: "Entry"}, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.UserID != "user-1" || resp.ContestID != "contest-1" {
			t.Errorf("unexpected submission %+v", resp.Submission)
		}
		if !resp.SubmittedAt.Equal(inWindow) {
			t.Errorf("expected submitted at %v, got %v", inWindow, resp.SubmittedAt)
		}
	})

	t.Run("denied without approved application", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }

		svc := newTestContestService(repo, nil, inWindow)
		_, err := svc.CreateSubmission(ctx, "contest-1", &CreateSubmissionRequest{Title: "Entry"}, "user-1")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("expected PermissionError, got %v", err)
		}
	})

	t.Run("one submission per user per contest", func(t *testing.T) {
		repo := newMockRepository()
		repo.contest.getByIDFn = func(id string) (*models.Contest, error) { return activeContest(), nil }
		repo.application.getByUserAndContestFn = func(userID, contestID string) (*models.ContestApplication, error) {
			return &models.ContestApplication{Status: models.ApplicationApproved}, nil
		}
		repo.submission.getByUserAndContestFn = func(userID, contestID string) (*models.Submission, error) {
			return &models.Submission{UserID: userID, ContestID: contestID}, nil
		}

		svc := newTestContestService(repo, nil, inWindow)
		_, err := svc.CreateSubmission(ctx, "contest-1", &CreateSubmissionRequest{Title: "Entry"}, "user-1")
		if !errors.Is(err, ErrSubmissionExists) {
			t.Fatalf("expected ErrSubmissionExists, got %v", err)
		}
	})
}
