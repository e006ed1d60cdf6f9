package models

import "time"

// LostFoundType distinguishes lost reports from found reports
type LostFoundType string

const (
	LostFoundTypeLost  LostFoundType = "lost"
	LostFoundTypeFound LostFoundType = "found"
)

// ValidLostFoundType reports whether the given value is a known type
func ValidLostFoundType(t LostFoundType) bool {
	return t == LostFoundTypeLost || t == LostFoundTypeFound
}

// LostFoundStatus tracks the moderation and claim state of a post
type LostFoundStatus string

const (
	LostFoundStatusPending  LostFoundStatus = "pending"
	LostFoundStatusApproved LostFoundStatus = "approved"
	LostFoundStatusRejected LostFoundStatus = "rejected"
	LostFoundStatusClaimed  LostFoundStatus = "claimed"
)

// LostFoundItem defines the lost & found model based on the 'lost_found_items' table.
// Every post starts at status "pending" and becomes visible once approved.
// The claim transition is one-shot: claimed_by is set at most once.
type LostFoundItem struct {
	ID            int64           `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Type          LostFoundType   `json:"type" db:"type"`
	Category      string          `json:"category" db:"category"`
	Location      string          `json:"location" db:"location"`
	Images        []string        `json:"images" db:"images"`
	ContactNumber *string         `json:"contactNumber,omitempty" db:"contact_number"`
	PostedByID    int64           `json:"postedById" db:"posted_by"` // immutable
	Status        LostFoundStatus `json:"status" db:"status"`
	ClaimedByID   *int64          `json:"claimedById,omitempty" db:"claimed_by"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
