package postgres

import (
	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyContestFilters applies common filters to contest queries
func (h *SharedHelpers) ApplyContestFilters(query *gorm.DB, filters repositories.ContestFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	return query
}

// ApplyApplicationFilters applies common filters to application queries
func (h *SharedHelpers) ApplyApplicationFilters(query *gorm.DB, filters repositories.ApplicationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":        true,
		"updated_at":        true,
		"id":                true,
		"title":             true,
		"status":            true,
		"application_start": true,
		"submission_end":    true,
		"submitted_at":      true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// statusDeadlineColumns whitelists the timeline columns the sweep may use
// in a bulk status predicate.
var statusDeadlineColumns = map[string]bool{
	"application_start": true,
	"topic_reveal_at":   true,
	"submission_end":    true,
	"judging_end":       true,
}
