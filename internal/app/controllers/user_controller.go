package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/app/services"
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/pkg/apperrors"
	"github.com/campushub/backend/internal/pkg/auth"
)

// parseIDParam parses a positive integer ID from the request path.
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("invalid id parameter")
	}
	return id, nil
}

// actorOrAbort returns the authenticated caller or writes a 401.
func actorOrAbort(ctx *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "authentication required"))
	}
	return actor, ok
}

// UserController handles account operations
type UserController struct {
	userService  services.UserService
	jwtService   *auth.JWTService
	secureCookie bool
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, jwtService *auth.JWTService, secureCookie bool) *UserController {
	return &UserController{
		userService:  userService,
		jwtService:   jwtService,
		secureCookie: secureCookie,
	}
}

func (c *UserController) setAuthCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(auth.CookieName, token, maxAge, "/", "", c.secureCookie, true)
}

// Register godoc
// @Summary Register a new account
// @Tags users
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.APIResponse
// @Router /users/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	avatar, _ := ctx.FormFile("avatar")

	user, err := c.userService.Register(ctx.Request.Context(), &req, avatar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, user, "registered successfully, await verification"))
}

// Login godoc
// @Summary Authenticate and receive an access token cookie
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Router /users/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.userService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setAuthCookie(ctx, resp.AccessToken, c.jwtService.AccessTokenMaxAge())
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, resp, "logged in"))
}

// Logout godoc
// @Summary Clear the access token cookie
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /users/logout [post]
func (c *UserController) Logout(ctx *gin.Context) {
	c.setAuthCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "logged out"))
}

// GetMe godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetProfile(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, user, "profile fetched"))
}

// UpdateDetails godoc
// @Summary Update the caller's profile fields
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/update-details [put]
func (c *UserController) UpdateDetails(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.UpdateDetails(ctx.Request.Context(), actor.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, user, "details updated"))
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/change-password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), actor.ID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "password changed"))
}

// UpdateAvatar godoc
// @Summary Replace the caller's avatar image
// @Tags users
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/update-avatar [put]
func (c *UserController) UpdateAvatar(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	avatar, err := ctx.FormFile("avatar")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("avatar image is required"))
		return
	}

	user, err := c.userService.UpdateAvatar(ctx.Request.Context(), actor.ID, avatar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, user, "avatar updated"))
}

// GetFaculty godoc
// @Summary List verified faculty members
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/faculty [get]
func (c *UserController) GetFaculty(ctx *gin.Context) {
	faculty, err := c.userService.GetFaculty(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, faculty, "faculty fetched"))
}

// GetAllUsers godoc
// @Summary List accounts with filters (admin)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "Filter by role"
// @Param search query string false "Match name, email or registration number"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse}
// @Router /users/all-users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var query dto.UserListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	resp, err := c.userService.GetAllUsers(ctx.Request.Context(), actor, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, resp, "users fetched"))
}

// GetDashboardStats godoc
// @Summary Admin dashboard counters
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats}
// @Router /users/admin-dashboard-stats [get]
func (c *UserController) GetDashboardStats(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	stats, err := c.userService.GetDashboardStats(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, stats, "stats fetched"))
}

// GetPendingVerifications godoc
// @Summary List accounts awaiting verification
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/pending-verifications [get]
func (c *UserController) GetPendingVerifications(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	pending, err := c.userService.GetPendingVerifications(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, pending, "pending verifications fetched"))
}

// VerifyUser godoc
// @Summary Verify an account by email
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/admin-verify [put]
func (c *UserController) VerifyUser(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.VerifyUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.VerifyUser(ctx.Request.Context(), actor, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, user, "user verified"))
}

// GetVerificationHistory godoc
// @Summary List verified accounts with their verifier (admin)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/verification-history [get]
func (c *UserController) GetVerificationHistory(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	history, err := c.userService.GetVerificationHistory(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, history, "verification history fetched"))
}

// DeactivateUser godoc
// @Summary Soft-disable an account (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/deactivate [post]
func (c *UserController) DeactivateUser(ctx *gin.Context) {
	c.setActive(ctx, false, "account deactivated")
}

// ReactivateUser godoc
// @Summary Re-enable a disabled account (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse
// @Router /users/reactivate [post]
func (c *UserController) ReactivateUser(ctx *gin.Context) {
	c.setActive(ctx, true, "account reactivated")
}

func (c *UserController) setActive(ctx *gin.Context, active bool, message string) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req dto.DeactivateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.SetUserActive(ctx.Request.Context(), actor, req.Email, active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, message))
}
