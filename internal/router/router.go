// Package router wires the HTTP surface onto a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/handler"
	"github.com/noah-isme/science-hub-api/internal/middleware"
	"github.com/noah-isme/science-hub-api/internal/models"
)

// Handlers bundles every handler mounted by Register.
type Handlers struct {
	Auth          *handler.AuthHandler
	Teachers      *handler.TeacherHandler
	Uploads       *handler.UploadHandler
	Moderation    *handler.ModerationHandler
	Materials     *handler.MaterialHandler
	History       *handler.HistoryHandler
	Notifications *handler.NotificationHandler
	Metrics       *handler.MetricsHandler
}

// Options carries the cross-cutting dependencies of the admin group.
type Options struct {
	Prefix   string
	Tokens   middleware.TokenValidator
	AuditLog *zap.Logger
}

// RegisterProbes mounts the unversioned operational endpoints.
func RegisterProbes(r *gin.Engine, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
}

// Register mounts the versioned API under opts.Prefix.
func Register(r *gin.Engine, h Handlers, opts Options) {
	api := r.Group(opts.Prefix)

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/verify", h.Auth.VerifyEmail)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	api.PATCH("/teachers/:id", h.Teachers.UpdateProfile)

	uploads := api.Group("/uploads")
	uploads.POST("", h.Uploads.Submit)
	uploads.GET("/mine", h.Uploads.Mine)
	uploads.GET("/:id", h.Uploads.Get)

	api.GET("/materials/:type", h.Materials.List)
	api.GET("/notifications/mine", h.Notifications.Mine)

	history := api.Group("/history")
	history.POST("", h.History.Record)
	history.GET("", h.History.Recent)
	history.DELETE("", h.History.Clear)

	api.POST("/admin/login", h.Auth.AdminLogin)

	admin := api.Group("/admin",
		middleware.JWT(opts.Tokens),
		middleware.RequireRoles(models.RoleAdmin),
	)
	admin.GET("/me", h.Auth.AdminMe)
	admin.GET("/metrics", h.Metrics.Snapshot)

	admin.GET("/teachers", h.Teachers.List)
	admin.GET("/teachers/:id", h.Teachers.Get)
	admin.PATCH("/teachers/:id", middleware.Audit(opts.AuditLog, "teacher.update", "teacher"), h.Teachers.AdminUpdate)

	admin.GET("/uploads", h.Uploads.List)
	admin.GET("/uploads/stats", h.Uploads.Stats)
	admin.GET("/uploads/pending-escalations", h.Uploads.PendingEscalations)
	admin.PATCH("/uploads/:id/status", middleware.Audit(opts.AuditLog, "upload.status", "upload"), h.Uploads.SetStatus)

	submissions := admin.Group("/submissions")
	submissions.GET("", h.Moderation.List)
	submissions.GET("/facets", h.Moderation.Facets)
	submissions.GET("/stats", h.Moderation.Stats)
	submissions.GET("/export", h.Moderation.Export)
	submissions.GET("/:id", h.Moderation.Get)
	submissions.PATCH("/:id", middleware.Audit(opts.AuditLog, "submission.update", "submission"), h.Moderation.Update)
	submissions.DELETE("/:id", middleware.Audit(opts.AuditLog, "submission.delete", "submission"), h.Moderation.Delete)
	submissions.POST("/:id/publish", middleware.Audit(opts.AuditLog, "submission.publish", "submission"), h.Moderation.Publish)
}
