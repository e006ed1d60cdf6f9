package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/middleware"
)

// formImages reads the uploaded images from a multipart form field.
func formImages(ctx *gin.Context, field string) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// IssueController handles facility issue operations
type IssueController struct {
	issueService services.IssueService
}

// NewIssueController creates a new IssueController
func NewIssueController(issueService services.IssueService) *IssueController {
	return &IssueController{issueService: issueService}
}

// CreateIssue godoc
// @Summary Report a facility issue
// @Tags issues
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} dto.APIResponse
// @Router /issues [post]
func (c *IssueController) CreateIssue(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.CreateIssueRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	issue, err := c.issueService.CreateIssue(ctx.Request.Context(), actor, &req, formImages(ctx, "images"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, issue, "issue reported"))
}

// GetAllIssues godoc
// @Summary List issues by urgency; students see their own plus settled ones
// @Tags issues
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /issues [get]
func (c *IssueController) GetAllIssues(ctx *gin.Context) {
	c.listIssues(ctx, func(actor services.Actor, query *dto.IssueListQuery) (interface{}, dto.PaginationInfo, error) {
		issues, pagination, err := c.issueService.GetAllIssues(ctx.Request.Context(), actor, query)
		return issues, pagination, err
	})
}

// GetMyIssues godoc
// @Summary List the caller's own reports
// @Tags issues
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /issues/my [get]
func (c *IssueController) GetMyIssues(ctx *gin.Context) {
	c.listIssues(ctx, func(actor services.Actor, query *dto.IssueListQuery) (interface{}, dto.PaginationInfo, error) {
		issues, pagination, err := c.issueService.GetMyIssues(ctx.Request.Context(), actor, query)
		return issues, pagination, err
	})
}

// GetAssignedIssues godoc
// @Summary List issues assigned to the caller (faculty)
// @Tags issues
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /issues/assigned [get]
func (c *IssueController) GetAssignedIssues(ctx *gin.Context) {
	c.listIssues(ctx, func(actor services.Actor, query *dto.IssueListQuery) (interface{}, dto.PaginationInfo, error) {
		issues, pagination, err := c.issueService.GetAssignedIssues(ctx.Request.Context(), actor, query)
		return issues, pagination, err
	})
}

func (c *IssueController) listIssues(ctx *gin.Context, list func(services.Actor, *dto.IssueListQuery) (interface{}, dto.PaginationInfo, error)) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var query dto.IssueListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	issues, pagination, err := list(actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, dto.PaginatedResponse{
		Items:      issues,
		Pagination: pagination,
	}, "issues fetched"))
}

// GetIssueByID godoc
// @Summary Get a single issue
// @Tags issues
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} dto.APIResponse
// @Router /issues/{id} [get]
func (c *IssueController) GetIssueByID(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	issue, err := c.issueService.GetIssueByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, issue, "issue fetched"))
}

// AssignIssue godoc
// @Summary Assign an issue to a faculty member (admin)
// @Tags issues
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} dto.APIResponse
// @Router /issues/{id}/assign [put]
func (c *IssueController) AssignIssue(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AssignIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	issue, err := c.issueService.AssignIssue(ctx.Request.Context(), actor, id, req.FacultyEmail)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, issue, "issue assigned"))
}

// UpdateIssueStatus godoc
// @Summary Move an issue to a new status
// @Tags issues
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} dto.APIResponse
// @Router /issues/{id}/status [put]
func (c *IssueController) UpdateIssueStatus(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateIssueStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	issue, err := c.issueService.UpdateIssueStatus(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, issue, "issue status updated"))
}
