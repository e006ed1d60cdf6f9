package dto

// CreateIssueRequest represents the issue report form fields. Up to five
// images arrive in the same multipart request.
type CreateIssueRequest struct {
	Title       string `form:"title" binding:"required,min=5,max=150"`
	Description string `form:"description" binding:"required,min=10"`
	Category    string `form:"category" binding:"required,oneof=wifi maintenance canteen transport lab other"`
	Priority    string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Location    string `form:"location"`
}

// IssueListQuery holds filters for issue listings
type IssueListQuery struct {
	Category string `form:"category"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
}

// AssignIssueRequest identifies the faculty assignee by email
type AssignIssueRequest struct {
	FacultyEmail string `json:"facultyEmail" binding:"required,email"`
}

// UpdateIssueStatusRequest sets the issue status and optional resolution notes
type UpdateIssueStatusRequest struct {
	Status          string `json:"status" binding:"required,oneof=open in-progress resolved closed"`
	ResolutionNotes string `json:"resolutionNotes"`
}
