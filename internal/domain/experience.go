package domain

import (
	"strings"
	"time"
)

type ExperienceStatus string

const (
	ExperienceDraft     ExperienceStatus = "draft"
	ExperiencePublished ExperienceStatus = "published"
	ExperienceBlocked   ExperienceStatus = "blocked"
)

func ParseExperienceStatus(s string) (ExperienceStatus, bool) {
	switch ExperienceStatus(s) {
	case ExperienceDraft, ExperiencePublished, ExperienceBlocked:
		return ExperienceStatus(s), true
	default:
		return "", false
	}
}

type Experience struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Location    *string          `json:"location"`
	Price       float64          `json:"price"`
	StartTime   *time.Time       `json:"start_time"`
	CreatedBy   int64            `json:"created_by"`
	Status      ExperienceStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

type CreateExperienceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    *string  `json:"location"`
	Price       *float64 `json:"price"`
	StartTime   *string  `json:"start_time"`
}

// Validate returns every violated field, not just the first.
func (r *CreateExperienceRequest) Validate() []string {
	var details []string
	if strings.TrimSpace(r.Title) == "" {
		details = append(details, "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		details = append(details, "description is required")
	}
	if r.StartTime != nil {
		if _, err := ParseStartTime(*r.StartTime); err != nil {
			details = append(details, "start_time must be a valid date")
		}
	}
	return details
}

// ParseStartTime accepts RFC 3339 timestamps and bare dates.
func ParseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery filters and paginates the public catalog.
type ListQuery struct {
	Location string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
	Sort     SortOrder
}

// DefaultListLimit applies when the caller sends no limit at all; an
// explicit out-of-range limit is clamped instead.
const (
	DefaultListLimit = 10
	maxListLimit     = 100
)

// Clamp forces the query into its legal ranges: limit in [1,100],
// page >= 1, sort either asc or desc.
func (q *ListQuery) Clamp() {
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Sort != SortDesc {
		q.Sort = SortAsc
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ListResult carries one page of published experiences together with
// the total count matching the filter, unaffected by pagination.
type ListResult struct {
	Data  []Experience `json:"data"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}
