package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/backend/internal/app/controllers"
	"github.com/campushub/backend/internal/app/models"
	"github.com/campushub/backend/internal/app/models/dto"
	"github.com/campushub/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	noticeController *controllers.NoticeController,
	issueController *controllers.IssueController,
	lostFoundController *controllers.LostFoundController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, gin.H{"status": "ok"}, "healthy"))
	})

	users := v1.Group("/users")
	{
		users.POST("/register", userController.Register)
		users.POST("/login", userController.Login)
	}

	// The notice board is readable without an account; signed-in admins
	// additionally see pending notices.
	notices := v1.Group("/notices")
	notices.Use(authMiddleware.OptionalJWTAuth())
	{
		notices.GET("", noticeController.GetAllNotices)
		notices.GET("/:id", noticeController.GetNoticeByID)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		usersProtected := authenticated.Group("/users")
		{
			usersProtected.POST("/logout", userController.Logout)
			usersProtected.GET("/me", userController.GetMe)
			usersProtected.PUT("/update-details", userController.UpdateDetails)
			usersProtected.PUT("/change-password", userController.ChangePassword)
			usersProtected.PUT("/update-avatar", userController.UpdateAvatar)

			// Staff routes: faculty may verify students, admins anyone.
			usersStaffProtected := usersProtected.Group("")
			usersStaffProtected.Use(authMiddleware.RequireRoles(models.RoleAdmin, models.RoleFaculty))
			{
				usersStaffProtected.GET("/faculty", userController.GetFaculty)
				usersStaffProtected.GET("/all-users", userController.GetAllUsers)
				usersStaffProtected.GET("/admin-dashboard-stats", userController.GetDashboardStats)
				usersStaffProtected.GET("/pending-verifications", userController.GetPendingVerifications)
			}

			usersFacultyProtected := usersProtected.Group("")
			usersFacultyProtected.Use(authMiddleware.RequireRoles(models.RoleFaculty))
			{
				usersFacultyProtected.PUT("/faculty/verify-student", userController.VerifyUser)
			}

			usersAdminProtected := usersProtected.Group("")
			usersAdminProtected.Use(authMiddleware.RequireRoles(models.RoleAdmin))
			{
				usersAdminProtected.PUT("/admin-verify", userController.VerifyUser)
				usersAdminProtected.GET("/verification-history", userController.GetVerificationHistory)
				usersAdminProtected.POST("/deactivate", userController.DeactivateUser)
				usersAdminProtected.POST("/reactivate", userController.ReactivateUser)
			}
		}

		// Notice management; reads are public above.
		noticesProtected := authenticated.Group("/notices")
		noticesProtected.Use(authMiddleware.RequireRoles(models.RoleFaculty, models.RoleAdmin))
		{
			noticesProtected.POST("", noticeController.CreateNotice)
			// Ownership checks for edits and deletes happen in the service.
			noticesProtected.PUT("/:id", noticeController.UpdateNotice)
			noticesProtected.DELETE("/:id", noticeController.DeleteNotice)
		}

		// Facility issue routes
		issues := authenticated.Group("/issues")
		{
			issues.POST("", issueController.CreateIssue)
			issues.GET("", issueController.GetAllIssues)
			issues.GET("/my", issueController.GetMyIssues)
			issues.GET("/:id", issueController.GetIssueByID)

			issuesStaffProtected := issues.Group("")
			issuesStaffProtected.Use(authMiddleware.RequireRoles(models.RoleFaculty, models.RoleAdmin))
			{
				issuesStaffProtected.GET("/assigned", issueController.GetAssignedIssues)
				issuesStaffProtected.PUT("/:id/assign", issueController.AssignIssue)
				issuesStaffProtected.PUT("/:id/status", issueController.UpdateIssueStatus)
			}
		}

		// Lost & found routes
		lostFound := authenticated.Group("/lost-found")
		{
			lostFound.POST("", lostFoundController.CreateItem)
			lostFound.GET("", lostFoundController.GetAllItems)
			lostFound.GET("/my-posts", lostFoundController.GetMyPosts)
			lostFound.GET("/:id", lostFoundController.GetItemByID)
			lostFound.PATCH("/:id/claim", lostFoundController.ClaimItem)
			lostFound.DELETE("/:id", lostFoundController.DeleteItem)

			lostFoundStaffProtected := lostFound.Group("")
			lostFoundStaffProtected.Use(authMiddleware.RequireRoles(models.RoleAdmin, models.RoleFaculty))
			{
				lostFoundStaffProtected.PATCH("/:id/approve", lostFoundController.ModerateItem)
			}
		}
	}
}
