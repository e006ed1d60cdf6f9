package dto

// CreateLostFoundRequest represents the lost & found post form fields. Up to
// five images arrive in the same multipart request.
type CreateLostFoundRequest struct {
	Title         string `form:"title" binding:"required,min=3,max=150"`
	Description   string `form:"description" binding:"required,min=10"`
	Type          string `form:"type" binding:"required,oneof=lost found"`
	Category      string `form:"category" binding:"required"`
	Location      string `form:"location" binding:"required"`
	ContactNumber string `form:"contactNumber"`
}

// LostFoundListQuery holds filters for lost & found listings. Status defaults
// to approved so unmoderated posts stay invisible.
type LostFoundListQuery struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	Status   string `form:"status,default=approved"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
}

// ApproveLostFoundRequest sets the moderation outcome of a post
type ApproveLostFoundRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=approved rejected"`
}
