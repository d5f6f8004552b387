package services

import (
	"errors"
	"fmt"

	"github.com/contest-platform/contest-service/internal/validator"
)

// ValidationError types come from the validator package so services can
// return its results directly.
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

func NewValidationError(field, message string, value interface{}) ValidationError {
	return ValidationError{Field: field, Message: message, Value: value}
}

// BusinessRuleError is returned when a request is well-formed but violates a
// domain rule, such as applying outside the application window.
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Context: context}
}

// PermissionError is returned when the caller lacks access to a resource.
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// Generic errors.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
)

// Domain errors.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrContestNotFound     = errors.New("contest not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionExists    = errors.New("submission already exists")
	ErrFileNotFound        = errors.New("file not found")
	ErrAssignmentExists    = errors.New("jury assignment already exists")
	ErrInvalidTransition   = errors.New("invalid contest status transition")
)
