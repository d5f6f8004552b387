package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleJury  UserRole = "JURY"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:50"`
	PasswordHash string   `json:"-" gorm:"not null;size:100"`
	DisplayName  string   `json:"display_name" gorm:"size:100"`
	Role         UserRole `json:"role" gorm:"not null;default:USER;size:10"`

	// Profile fields
	Tagline       string         `json:"tagline" gorm:"size:120"`
	Bio           string         `json:"bio" gorm:"size:250"`
	About         string         `json:"about" gorm:"size:1000"`
	Avatar        string         `json:"avatar" gorm:"size:500"`
	PortfolioLink string         `json:"portfolio_link" gorm:"size:500"`
	GalleryImages datatypes.JSON `json:"gallery_images"`

	// Contact links
	ContactEmail      string `json:"contact_email" gorm:"size:255"`
	ContactInstagram  string `json:"contact_instagram" gorm:"size:500"`
	ContactTwitter    string `json:"contact_twitter" gorm:"size:500"`
	ContactBehance    string `json:"contact_behance" gorm:"size:500"`
	ContactArtStation string `json:"contact_artstation" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
