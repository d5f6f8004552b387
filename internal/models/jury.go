package models

import "time"

// JuryAssignment grants a juror access to one contest. It carries no mutable state.
type JuryAssignment struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	JuryID    string `json:"jury_id" gorm:"not null;size:36;uniqueIndex:idx_assignment_jury_contest"`
	ContestID string `json:"contest_id" gorm:"not null;size:36;uniqueIndex:idx_assignment_jury_contest;index"`

	CreatedAt time.Time `json:"created_at"`

	Jury    User    `json:"jury,omitempty" gorm:"foreignKey:JuryID"`
	Contest Contest `json:"-" gorm:"foreignKey:ContestID"`
}

// JuryScore is upserted per (juror, submission) pair; Score is in [0,100].
type JuryScore struct {
	ID           string  `json:"id" gorm:"primaryKey;size:36"`
	JuryID       string  `json:"jury_id" gorm:"not null;size:36;uniqueIndex:idx_score_jury_submission"`
	SubmissionID string  `json:"submission_id" gorm:"not null;size:36;uniqueIndex:idx_score_jury_submission;index"`
	Score        float64 `json:"score" gorm:"not null"`
	Comment      *string `json:"comment" gorm:"size:1000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Jury       User       `json:"-" gorm:"foreignKey:JuryID"`
	Submission Submission `json:"-" gorm:"foreignKey:SubmissionID"`
}

func (JuryAssignment) TableName() string {
	return "jury_assignments"
}

func (JuryScore) TableName() string {
	return "jury_scores"
}
