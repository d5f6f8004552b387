package validator

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles domain rule validation that struct tags cannot
// express, foremost the contest timeline ordering.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateContestCreate checks struct tags plus timeline ordering.
func (bv *BusinessValidator) ValidateContestCreate(req *ContestCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, ValidateTimeline(req.ApplicationStart, req.ApplicationEnd, req.TopicRevealAt, req.SubmissionEnd, req.JudgingEnd)...)

	return errors
}

// ValidateContestTimeline validates the timeline that results from applying
// an update on top of the stored contest values.
func (bv *BusinessValidator) ValidateContestTimeline(applicationStart, applicationEnd, topicRevealAt, submissionEnd time.Time, judgingEnd *time.Time) ValidationErrors {
	return ValidateTimeline(applicationStart, applicationEnd, topicRevealAt, submissionEnd, judgingEnd)
}

// ValidateProfileUpdate checks struct tags plus per-field URL validity.
func (bv *BusinessValidator) ValidateProfileUpdate(req *ProfileUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	urlFields := map[string]*string{
		"profile_image_url": req.ProfileImageURL,
		"portfolio_link":    req.PortfolioLink,
		"instagram":         req.Instagram,
		"twitter":           req.Twitter,
		"behance":           req.Behance,
		"artstation":        req.ArtStation,
	}
	for field, value := range urlFields {
		if value == nil || *value == "" {
			continue
		}
		if !IsValidURL(*value) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "must be a valid http(s) URL",
				Value:   *value,
				Rule:    "url",
			})
		}
	}

	for i, gallery := range req.GalleryImageURLs {
		if gallery == "" {
			continue
		}
		if !IsValidURL(gallery) {
			errors = append(errors, ValidationError{
				Field:   "gallery_image_urls",
				Message: "contains an invalid URL",
				Value:   req.GalleryImageURLs[i],
				Rule:    "url",
			})
		}
	}

	return errors
}

// ValidateTimeline enforces the ordering
// applicationStart < applicationEnd <= topicRevealAt < submissionEnd,
// and submissionEnd < judgingEnd when a judging deadline is set.
func ValidateTimeline(applicationStart, applicationEnd, topicRevealAt, submissionEnd time.Time, judgingEnd *time.Time) ValidationErrors {
	var errors ValidationErrors

	if !applicationStart.Before(applicationEnd) {
		errors = append(errors, ValidationError{
			Field:   "application_end",
			Message: "must be after application start",
			Value:   applicationEnd,
			Rule:    "timeline",
		})
	}
	if topicRevealAt.Before(applicationEnd) {
		errors = append(errors, ValidationError{
			Field:   "topic_reveal_at",
			Message: "must not be before application end",
			Value:   topicRevealAt,
			Rule:    "timeline",
		})
	}
	if !topicRevealAt.Before(submissionEnd) {
		errors = append(errors, ValidationError{
			Field:   "submission_end",
			Message: "must be after topic reveal",
			Value:   submissionEnd,
			Rule:    "timeline",
		})
	}
	if judgingEnd != nil && !submissionEnd.Before(*judgingEnd) {
		errors = append(errors, ValidationError{
			Field:   "judging_end",
			Message: "must be after submission end",
			Value:   *judgingEnd,
			Rule:    "timeline",
		})
	}

	return errors
}

// IsValidURL accepts absolute http and https URLs with a host.
func IsValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("contest_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})
}
