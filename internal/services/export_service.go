package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportContestResults renders a completed contest's ranked results as an
// xlsx workbook.
func (s *exportService) ExportContestResults(ctx context.Context, contestID string) ([]byte, error) {
	s.logger.Info("Exporting contest results", "contest_id", contestID)

	contest, err := s.repo.Contest().GetByID(ctx, nil, contestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}

	if contest.Status != models.ContestCompleted {
		return nil, NewBusinessRuleError("contest_not_completed",
			"results can only be exported for completed contests",
			map[string]interface{}{"status": contest.Status})
	}

	submissions, err := s.repo.Submission().ListRankedByContest(ctx, nil, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranked submissions: %w", err)
	}

	rows := contestResultRows(submissions)

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Submission", "Participant", "Display Name", "Final Score", "Submitted At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, result := range rows {
		values := []interface{}{
			result.Rank,
			result.Submission,
			result.Username,
			result.DisplayName,
			result.FinalScore,
			result.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Contest results exported", "contest_id", contestID, "rows", len(rows))
	return buf.Bytes(), nil
}

// contestResultRows flattens ranked submissions into result rows, falling
// back to the username when a participant has no display name.
func contestResultRows(submissions []*models.Submission) []models.ContestResultRow {
	rows := make([]models.ContestResultRow, len(submissions))
	for i, sub := range submissions {
		displayName := sub.User.DisplayName
		if displayName == "" {
			displayName = sub.User.Username
		}

		rows[i] = models.ContestResultRow{
			Rank:        derefInt(sub.Rank),
			Submission:  sub.Title,
			Username:    sub.User.Username,
			DisplayName: displayName,
			FinalScore:  derefFloat(sub.FinalScore),
			SubmittedAt: sub.SubmittedAt,
		}
	}
	return rows
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
