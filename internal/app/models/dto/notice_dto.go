package dto

// CreateNoticeRequest represents the notice creation form fields. The
// optional attachment arrives in the same multipart request.
type CreateNoticeRequest struct {
	Title     string `form:"title" binding:"required,min=5,max=200"`
	Content   string `form:"content" binding:"required,min=10"`
	Category  string `form:"category" binding:"required,oneof=event notice holiday exam"`
	EventDate string `form:"eventDate" binding:"omitempty"`
	IsPinned  bool   `form:"isPinned"`
}

// UpdateNoticeRequest represents a partial notice edit. What the requested
// isPinned and status become depends on the editor's role.
type UpdateNoticeRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=5,max=200"`
	Content   *string `json:"content" binding:"omitempty,min=10"`
	Category  *string `json:"category" binding:"omitempty,oneof=event notice holiday exam"`
	EventDate *string `json:"eventDate"`
	IsPinned  *bool   `json:"isPinned"`
}

// NoticeListQuery holds filters for notice listings
type NoticeListQuery struct {
	Category string `form:"category"`
	Sort     string `form:"sort,default=newest"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
}
