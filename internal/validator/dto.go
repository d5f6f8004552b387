package validator

import "time"

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ContestCreateRequest carries the full timeline for a new contest. The
// ordering of the timeline fields is enforced by the business validator.
type ContestCreateRequest struct {
	Title            string     `json:"title" validate:"required,contest_title"`
	Description      string     `json:"description" validate:"omitempty,max=5000"`
	ApplicationStart time.Time  `json:"applicationStart" validate:"required"`
	ApplicationEnd   time.Time  `json:"applicationEnd" validate:"required"`
	TopicRevealAt    time.Time  `json:"topicRevealAt" validate:"required"`
	SubmissionEnd    time.Time  `json:"submissionEnd" validate:"required"`
	JudgingEnd       *time.Time `json:"judgingEnd"`
	RequiresApproval bool       `json:"requiresApproval"`
	MaxFileSize      *int64     `json:"maxFileSize" validate:"omitempty,min=1"`
}

// ContestUpdateRequest uses pointers so absent fields are left untouched.
type ContestUpdateRequest struct {
	Title            *string    `json:"title" validate:"omitempty,contest_title"`
	Description      *string    `json:"description" validate:"omitempty,max=5000"`
	ApplicationStart *time.Time `json:"applicationStart"`
	ApplicationEnd   *time.Time `json:"applicationEnd"`
	TopicRevealAt    *time.Time `json:"topicRevealAt"`
	SubmissionEnd    *time.Time `json:"submissionEnd"`
	JudgingEnd       *time.Time `json:"judgingEnd"`
	RequiresApproval *bool      `json:"requiresApproval"`
	MaxFileSize      *int64     `json:"maxFileSize" validate:"omitempty,min=1"`
}

type ApplyRequest struct {
	Message string `json:"message" validate:"omitempty,max=1000"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type SubmissionCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

type ScoreRequest struct {
	Score   float64 `json:"score" validate:"min=0,max=100"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

type AssignJuryRequest struct {
	JuryID string `json:"juryId" validate:"required,uuid"`
}

// ProfileUpdateRequest mirrors the editable profile surface. URL fields are
// validated individually so each failure names its own field.
type ProfileUpdateRequest struct {
	DisplayName      *string  `json:"displayName" validate:"omitempty,max=100"`
	Tagline          *string  `json:"tagline" validate:"omitempty,max=100"`
	Bio              *string  `json:"bio" validate:"omitempty,max=250"`
	About            *string  `json:"about" validate:"omitempty,max=1000"`
	ProfileImageURL  *string  `json:"profileImageUrl"`
	PortfolioLink    *string  `json:"portfolioLink"`
	GalleryImageURLs []string `json:"galleryImageUrls"`
	ContactEmail     *string  `json:"contactEmail" validate:"omitempty,email"`
	Instagram        *string  `json:"instagram"`
	Twitter          *string  `json:"twitter"`
	Behance          *string  `json:"behance"`
	ArtStation       *string  `json:"artstation"`
}
