package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/middleware"
)

// LostFoundController handles lost & found board operations
type LostFoundController struct {
	lostFoundService services.LostFoundService
}

// NewLostFoundController creates a new LostFoundController
func NewLostFoundController(lostFoundService services.LostFoundService) *LostFoundController {
	return &LostFoundController{lostFoundService: lostFoundService}
}

// CreateItem godoc
// @Summary Post a lost or found item; it stays pending until approved
// @Tags lost-found
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} dto.APIResponse
// @Router /lost-found [post]
func (c *LostFoundController) CreateItem(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.CreateLostFoundRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	item, err := c.lostFoundService.CreateItem(ctx.Request.Context(), actor, &req, formImages(ctx, "images"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, item, "post created, awaiting approval"))
}

// GetAllItems godoc
// @Summary Browse the board; defaults to approved posts
// @Tags lost-found
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "lost or found"
// @Param category query string false "Filter by category"
// @Param status query string false "Admins may browse any status"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /lost-found [get]
func (c *LostFoundController) GetAllItems(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var query dto.LostFoundListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	items, pagination, err := c.lostFoundService.GetAllItems(ctx.Request.Context(), actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, dto.PaginatedResponse{
		Items:      items,
		Pagination: pagination,
	}, "posts fetched"))
}

// GetMyPosts godoc
// @Summary List the caller's posts in any status
// @Tags lost-found
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /lost-found/my-posts [get]
func (c *LostFoundController) GetMyPosts(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var query dto.LostFoundListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	items, pagination, err := c.lostFoundService.GetMyPosts(ctx.Request.Context(), actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, dto.PaginatedResponse{
		Items:      items,
		Pagination: pagination,
	}, "posts fetched"))
}

// GetItemByID godoc
// @Summary Get a single post
// @Tags lost-found
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Router /lost-found/{id} [get]
func (c *LostFoundController) GetItemByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.lostFoundService.GetItemByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, item, "post fetched"))
}

// ModerateItem godoc
// @Summary Approve or reject a pending post (admin)
// @Tags lost-found
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Router /lost-found/{id}/approve [patch]
func (c *LostFoundController) ModerateItem(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// An empty body approves; {"status":"rejected"} rejects.
	var req dto.ApproveLostFoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		middleware.HandleValidationError(ctx, err)
		return
	}
	approve := req.Status != "rejected"

	item, err := c.lostFoundService.ModerateItem(ctx.Request.Context(), actor, id, approve)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, item, "post moderated"))
}

// ClaimItem godoc
// @Summary Claim an approved item; first claimer wins
// @Tags lost-found
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Router /lost-found/{id}/claim [patch]
func (c *LostFoundController) ClaimItem(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	item, err := c.lostFoundService.ClaimItem(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, item, "item claimed"))
}

// DeleteItem godoc
// @Summary Delete a post
// @Tags lost-found
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Router /lost-found/{id} [delete]
func (c *LostFoundController) DeleteItem(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.lostFoundService.DeleteItem(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "post deleted"))
}
