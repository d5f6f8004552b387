package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/models"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.ProfileResponse, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return buildProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Updating profile", "user_id", userID)

	if errs := s.validator.GetBusinessValidator().ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Tagline != nil {
		user.Tagline = *req.Tagline
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.About != nil {
		user.About = *req.About
	}
	if req.ProfileImageURL != nil {
		user.Avatar = *req.ProfileImageURL
	}
	if req.PortfolioLink != nil {
		user.PortfolioLink = *req.PortfolioLink
	}
	if req.GalleryImageURLs != nil {
		gallery := filterEmpty(req.GalleryImageURLs)
		encoded, err := json.Marshal(gallery)
		if err != nil {
			return nil, fmt.Errorf("failed to encode gallery: %w", err)
		}
		user.GalleryImages = datatypes.JSON(encoded)
	}
	if req.ContactEmail != nil {
		user.ContactEmail = *req.ContactEmail
	}
	if req.Instagram != nil {
		user.ContactInstagram = *req.Instagram
	}
	if req.Twitter != nil {
		user.ContactTwitter = *req.Twitter
	}
	if req.Behance != nil {
		user.ContactBehance = *req.Behance
	}
	if req.ArtStation != nil {
		user.ContactArtStation = *req.ArtStation
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return buildProfileResponse(user), nil
}

// buildProfileResponse projects a user onto the public profile shape. Display
// name falls back to the username, optional fields default to empty values.
func buildProfileResponse(user *models.User) *models.ProfileResponse {
	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}

	gallery := []string{}
	if len(user.GalleryImages) > 0 {
		var decoded []string
		if err := json.Unmarshal(user.GalleryImages, &decoded); err == nil {
			gallery = filterEmpty(decoded)
		}
	}

	return &models.ProfileResponse{
		UserID:            user.ID,
		Username:          user.Username,
		DisplayName:       displayName,
		Tagline:           user.Tagline,
		Bio:               user.Bio,
		About:             user.About,
		ProfileImageURL:   user.Avatar,
		PortfolioLink:     user.PortfolioLink,
		GalleryImageURLs:  gallery,
		ContactEmail:      user.ContactEmail,
		ContactInstagram:  user.ContactInstagram,
		ContactTwitter:    user.ContactTwitter,
		ContactBehance:    user.ContactBehance,
		ContactArtStation: user.ContactArtStation,
	}
}

func filterEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
