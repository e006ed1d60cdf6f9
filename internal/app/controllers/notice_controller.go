package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/middleware"
)

// NoticeController handles notice operations
type NoticeController struct {
	noticeService services.NoticeService
}

// NewNoticeController creates a new NoticeController
func NewNoticeController(noticeService services.NoticeService) *NoticeController {
	return &NoticeController{noticeService: noticeService}
}

// CreateNotice godoc
// @Summary Publish a notice (faculty, admin)
// @Tags notices
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} dto.APIResponse
// @Router /notices [post]
func (c *NoticeController) CreateNotice(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.CreateNoticeRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	attachment, _ := ctx.FormFile("file")

	notice, err := c.noticeService.CreateNotice(ctx.Request.Context(), actor, &req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, notice, "notice created"))
}

// GetAllNotices godoc
// @Summary List notices, pinned first
// @Tags notices
// @Produce json
// @Param category query string false "Filter by category"
// @Param sort query string false "newest or oldest"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /notices [get]
func (c *NoticeController) GetAllNotices(ctx *gin.Context) {
	// Public endpoint; anonymous callers get the published view.
	actor, _ := middleware.ActorFromContext(ctx)

	var query dto.NoticeListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notices, pagination, err := c.noticeService.GetAllNotices(ctx.Request.Context(), actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, dto.PaginatedResponse{
		Items:      notices,
		Pagination: pagination,
	}, "notices fetched"))
}

// GetNoticeByID godoc
// @Summary Get a single notice
// @Tags notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse
// @Router /notices/{id} [get]
func (c *NoticeController) GetNoticeByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	notice, err := c.noticeService.GetNoticeByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, notice, "notice fetched"))
}

// UpdateNotice godoc
// @Summary Edit a notice; faculty edits await re-approval
// @Tags notices
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse
// @Router /notices/{id} [put]
func (c *NoticeController) UpdateNotice(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.noticeService.UpdateNotice(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, notice, "notice updated"))
}

// DeleteNotice godoc
// @Summary Delete a notice
// @Tags notices
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse
// @Router /notices/{id} [delete]
func (c *NoticeController) DeleteNotice(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.noticeService.DeleteNotice(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "notice deleted"))
}
