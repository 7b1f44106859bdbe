package routes

import (
	"github.com/gin-gonic/gin"

	"coopattend/controllers"
	"coopattend/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine) {
	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
		}
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/refresh", controllers.RefreshToken)
		protected.GET("/profile", controllers.GetUserProfile)

		// User provisioning (super admin only)
		protected.POST("/auth/register", middleware.SuperAdminAuthMiddleware(), controllers.Register)

		// Attendance workflow
		attendance := protected.Group("/attendance")
		{
			attendance.POST("", middleware.StaffAuthMiddleware(), controllers.LogAttendance)
			attendance.GET("", controllers.GetAttendance)
			attendance.GET("/pending", middleware.ApproverAuthMiddleware(), controllers.GetPendingAttendance)
			attendance.GET("/:id", controllers.GetAttendanceByID)
			attendance.POST("/:id/approve", middleware.ApproverAuthMiddleware(), controllers.ApproveAttendance)
			attendance.POST("/:id/reject", middleware.ApproverAuthMiddleware(), controllers.RejectAttendance)
			attendance.POST("/:id/cancel", controllers.CancelAttendance)
		}

		// Members
		members := protected.Group("/members")
		{
			members.POST("", middleware.BranchAdminAuthMiddleware(), controllers.CreateMember)
			members.GET("", controllers.GetMembers)
			members.GET("/:id", controllers.GetMemberByID)
			members.PUT("/:id", middleware.BranchAdminAuthMiddleware(), controllers.UpdateMember)
			members.PATCH("/:id/toggle-status", middleware.BranchAdminAuthMiddleware(), controllers.ToggleMemberStatus)
		}

		// Branches
		branches := protected.Group("/branches")
		{
			branches.POST("", middleware.SuperAdminAuthMiddleware(), controllers.CreateBranch)
			branches.GET("", controllers.GetBranches)
			branches.GET("/:id", controllers.GetBranchByID)
			branches.PUT("/:id", middleware.SuperAdminAuthMiddleware(), controllers.UpdateBranch)
			branches.PATCH("/:id/toggle-status", middleware.SuperAdminAuthMiddleware(), controllers.ToggleBranchStatus)
		}

		// Audit trail (super admin only)
		protected.GET("/audit-logs", middleware.SuperAdminAuthMiddleware(), controllers.GetAuditLogs)
	}
}
