package models

import "time"

type Submission struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	UserID      string `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_submission_user_contest"`
	ContestID   string `json:"contest_id" gorm:"not null;size:36;uniqueIndex:idx_submission_user_contest;index"`
	Title       string `json:"title" gorm:"size:200"`
	Description string `json:"description" gorm:"type:text"`

	// FinalScore is the mean of all jury scores, nil while unscored.
	// Rank is a gapless 1..N ordering over scored submissions in the
	// contest, descending by score with ties broken by submission time.
	FinalScore *float64 `json:"final_score"`
	Rank       *int     `json:"rank"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
	UpdatedAt   time.Time `json:"updated_at"`

	User    User             `json:"-" gorm:"foreignKey:UserID"`
	Contest Contest          `json:"-" gorm:"foreignKey:ContestID"`
	Files   []SubmissionFile `json:"files,omitempty" gorm:"foreignKey:SubmissionID"`
	Scores  []JuryScore      `json:"-" gorm:"foreignKey:SubmissionID"`
}

type SubmissionFile struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	SubmissionID string `json:"submission_id" gorm:"not null;size:36;index"`
	Filename     string `json:"filename" gorm:"not null;size:100"`
	OriginalName string `json:"original_name" gorm:"not null;size:255"`
	Filepath     string `json:"filepath" gorm:"not null;size:500"`
	MimeType     string `json:"mime_type" gorm:"not null;size:100"`
	Size         int64  `json:"size" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`

	Submission Submission `json:"-" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionFile) TableName() string {
	return "submission_files"
}
