package handlers

import (
	"github.com/gin-gonic/gin"

	"doctrack/backend/internal/auth"
	"doctrack/backend/internal/middleware"
	"doctrack/backend/internal/models"
)

// Routes holds what the API router is built from.
type Routes struct {
	Handler *Handler
	Auth    *auth.Handler
	Issuer  *auth.Issuer
	Users   middleware.UserLoader
	Extra   []gin.HandlerFunc
}

// Register mounts every endpoint on router.
func Register(router *gin.Engine, rt Routes) {
	h := rt.Handler
	router.GET("/health", HealthCheck)

	api := router.Group("/api", rt.Extra...)
	api.POST("/auth/login", rt.Auth.Login)

	protected := api.Group("/", middleware.AuthMiddleware(rt.Issuer, rt.Users))
	admin := middleware.RequireRole(models.RoleAdmin)
	can := middleware.RequirePermission
	{
		// AUTH ROUTES
		protected.POST("/auth/logout", rt.Auth.Logout)
		protected.POST("/auth/register", admin, rt.Auth.Register)
		protected.GET("/auth/user-permissions", rt.Auth.UserPermissions)

		// USER ROUTES
		protected.GET("/users", admin, h.ListUsers)
		protected.GET("/users/designation", h.UserDesignation)
		protected.GET("/users/check-permissions", h.CheckPermission)
		protected.PATCH("/users/:userId/permissions", admin, h.UpdateUserPermissions)
		protected.PUT("/designations/:designation/permissions", admin, h.UpdateDesignationPermissions)

		// DOCUMENT ROUTES
		protected.POST("/documents", can(models.PermissionUpload), h.UploadDocuments)
		protected.GET("/documents/recent", h.RecentUploads)
		protected.GET("/documents/search", can(models.PermissionView), h.SearchDocuments)
		protected.GET("/documents/by-category", can(models.PermissionView), h.DocumentsByCategory)
		protected.GET("/documents/:id", can(models.PermissionView), h.GetDocument)
		protected.PUT("/documents/:id", can(models.PermissionEdit), h.UpdateDocument)
		protected.DELETE("/documents/:id", can(models.PermissionDelete), h.DeleteDocument)

		// FILE ROUTES
		protected.GET("/files/next-id", h.NextEntryID)
		protected.GET("/files", admin, h.ListFiles)
		protected.GET("/files/:filename", can(models.PermissionView), h.ServeFile)

		// REMINDER ROUTES
		protected.POST("/reminders", h.CreateReminder)
		protected.GET("/reminders", h.UpcomingReminders)
		protected.PUT("/reminders/:id/complete", h.CompleteReminder)
		protected.PUT("/reminders/by-document/:documentId", h.SyncReminders)
		protected.DELETE("/reminders/by-document/:documentId", h.DeleteReminders)
	}
}
