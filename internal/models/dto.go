package models

import "time"

// ===== PROFILE DTOs =====

// ProfileResponse is the display-safe projection of a user's profile.
// Unset optional fields are empty strings, never null.
type ProfileResponse struct {
	UserID            string   `json:"userId"`
	Username          string   `json:"username"`
	DisplayName       string   `json:"displayName"`
	Tagline           string   `json:"tagline"`
	Bio               string   `json:"bio"`
	About             string   `json:"about"`
	ProfileImageURL   string   `json:"profileImageUrl"`
	PortfolioLink     string   `json:"portfolioLink"`
	GalleryImageURLs  []string `json:"galleryImageUrls"`
	ContactEmail      string   `json:"contactEmail"`
	ContactInstagram  string   `json:"contactInstagram"`
	ContactTwitter    string   `json:"contactTwitter"`
	ContactBehance    string   `json:"contactBehance"`
	ContactArtStation string   `json:"contactArtStation"`
}

// ===== PARTICIPANT DTOs =====

// UserSummary is the public slice of a user attached to submissions and applications.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// ===== RESULT DTOs =====

// ContestResultRow is one line of a completed contest's ranked results.
type ContestResultRow struct {
	Rank        int       `json:"rank"`
	Submission  string    `json:"submission"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	FinalScore  float64   `json:"final_score"`
	SubmittedAt time.Time `json:"submitted_at"`
}
