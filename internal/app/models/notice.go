package models

import "time"

// NoticeCategory classifies a notice
type NoticeCategory string

const (
	NoticeCategoryEvent   NoticeCategory = "event"
	NoticeCategoryNotice  NoticeCategory = "notice"
	NoticeCategoryHoliday NoticeCategory = "holiday"
	NoticeCategoryExam    NoticeCategory = "exam"
)

// ValidNoticeCategory reports whether the given value is a known category
func ValidNoticeCategory(c NoticeCategory) bool {
	switch c {
	case NoticeCategoryEvent, NoticeCategoryNotice, NoticeCategoryHoliday, NoticeCategoryExam:
		return true
	}
	return false
}

// NoticeStatus is the publication state of a notice
type NoticeStatus string

const (
	NoticeStatusActive          NoticeStatus = "active"
	NoticeStatusPendingApproval NoticeStatus = "pending_approval"
	NoticeStatusPublished       NoticeStatus = "published"
	NoticeStatusCompleted       NoticeStatus = "completed"
)

// Notice defines the notice model based on the 'notices' table
type Notice struct {
	ID              int64          `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Content         string         `json:"content" db:"content"`
	Category        NoticeCategory `json:"category" db:"category"`
	Status          NoticeStatus   `json:"status" db:"status"`
	AuthorID        int64          `json:"authorId" db:"author_id"` // set once at creation
	EventDate       *time.Time     `json:"eventDate,omitempty" db:"event_date"`
	IsPinned        bool           `json:"isPinned" db:"is_pinned"`
	FileURL         *string        `json:"fileUrl,omitempty" db:"file_url"`
	EditedByFaculty bool           `json:"editedByFaculty" db:"edited_by_faculty"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}
