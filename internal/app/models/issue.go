package models

import "time"

// IssueCategory classifies a facility issue report
type IssueCategory string

const (
	IssueCategoryWifi        IssueCategory = "wifi"
	IssueCategoryMaintenance IssueCategory = "maintenance"
	IssueCategoryCanteen     IssueCategory = "canteen"
	IssueCategoryTransport   IssueCategory = "transport"
	IssueCategoryLab         IssueCategory = "lab"
	IssueCategoryOther       IssueCategory = "other"
)

// ValidIssueCategory reports whether the given value is a known category
func ValidIssueCategory(c IssueCategory) bool {
	switch c {
	case IssueCategoryWifi, IssueCategoryMaintenance, IssueCategoryCanteen,
		IssueCategoryTransport, IssueCategoryLab, IssueCategoryOther:
		return true
	}
	return false
}

// IssuePriority orders issues by urgency
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
	IssuePriorityUrgent IssuePriority = "urgent"
)

// ValidIssuePriority reports whether the given value is a known priority
func ValidIssuePriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityUrgent:
		return true
	}
	return false
}

// IssueStatus tracks the handling state of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// ValidIssueStatus reports whether the given value is a known status
func ValidIssueStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// Issue defines the issue model based on the 'issues' table
type Issue struct {
	ID              int64         `json:"id" db:"id"`
	Title           string        `json:"title" db:"title"`
	Description     string        `json:"description" db:"description"`
	Category        IssueCategory `json:"category" db:"category"`
	Priority        IssuePriority `json:"priority" db:"priority"`
	Status          IssueStatus   `json:"status" db:"status"`
	RaisedByID      int64         `json:"raisedById" db:"raised_by"` // immutable
	AssignedToID    *int64        `json:"assignedToId,omitempty" db:"assigned_to"`
	Images          []string      `json:"images" db:"images"`
	Location        *string       `json:"location,omitempty" db:"location"`
	ResolutionNotes *string       `json:"resolutionNotes,omitempty" db:"resolution_notes"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}
