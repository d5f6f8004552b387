package models

import (
	"time"

	"gorm.io/gorm"
)

type ContestStatus string

// Contest states advance strictly forward, never backward.
const (
	ContestDraft            ContestStatus = "DRAFT"
	ContestApplications     ContestStatus = "APPLICATIONS"
	ContestActive           ContestStatus = "ACTIVE"
	ContestSubmissionClosed ContestStatus = "SUBMISSION_CLOSED"
	ContestJudging          ContestStatus = "JUDGING"
	ContestCompleted        ContestStatus = "COMPLETED"
)

// DefaultMaxFileSize is the per-contest upload cap when none is configured (200 MiB).
const DefaultMaxFileSize int64 = 209715200

type Contest struct {
	ID          string        `json:"id" gorm:"primaryKey;size:36"`
	Title       string        `json:"title" gorm:"not null;size:200;index"`
	Description string        `json:"description" gorm:"type:text"`
	Status      ContestStatus `json:"status" gorm:"default:DRAFT;index;size:20"`

	// Timeline: applicationStart < applicationEnd <= topicRevealAt < submissionEnd.
	ApplicationStart time.Time  `json:"application_start" gorm:"not null"`
	ApplicationEnd   time.Time  `json:"application_end" gorm:"not null"`
	TopicRevealAt    time.Time  `json:"topic_reveal_at" gorm:"not null"`
	SubmissionEnd    time.Time  `json:"submission_end" gorm:"not null"`
	JudgingEnd       *time.Time `json:"judging_end"`

	RequiresApproval bool  `json:"requires_approval" gorm:"not null;default:false"`
	MaxFileSize      int64 `json:"max_file_size" gorm:"not null;default:209715200"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:36"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Applications    []ContestApplication `json:"applications,omitempty" gorm:"foreignKey:ContestID"`
	Submissions     []Submission         `json:"submissions,omitempty" gorm:"foreignKey:ContestID"`
	JuryAssignments []JuryAssignment     `json:"jury_assignments,omitempty" gorm:"foreignKey:ContestID"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

type ContestApplication struct {
	ID        string            `json:"id" gorm:"primaryKey;size:36"`
	UserID    string            `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_application_user_contest"`
	ContestID string            `json:"contest_id" gorm:"not null;size:36;uniqueIndex:idx_application_user_contest"`
	Message   string            `json:"message" gorm:"size:1000"`
	Status    ApplicationStatus `json:"status" gorm:"default:PENDING;size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Contest Contest `json:"-" gorm:"foreignKey:ContestID"`
}

func (Contest) TableName() string {
	return "contests"
}

func (ContestApplication) TableName() string {
	return "contest_applications"
}
