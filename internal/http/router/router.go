package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/extrasite-backend/internal/config"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/http/handlers"
	"github.com/ignatzorin/extrasite-backend/internal/http/middleware"
	"github.com/ignatzorin/extrasite-backend/internal/http/response"
)

// Handlers - все хэндлеры API.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Jobs          *handlers.JobHandler
	Applications  *handlers.ApplicationHandler
	Profiles      *handlers.ProfileHandler
	Dashboards    *handlers.DashboardHandler
	Admin         *handlers.AdminHandler
	Alarm         *handlers.AlarmHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
	Health        *handlers.HealthHandler
	// Seed может быть nil: тогда маршрут не регистрируется.
	Seed          *handlers.SeedHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.AccessParser, limiterStore limiter.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "rota não encontrada")
	})

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/uploads", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(limiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register/job-seeker", h.Auth.RegisterJobSeeker)
		authGroup.POST("/register/company", h.Auth.RegisterCompany)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	// Публичные маршруты
	api.GET("/jobs", h.Jobs.ListBoard)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), h.Jobs.Get)
	api.GET("/platform", h.Jobs.Platform)
	api.GET("/fees/quote", h.Jobs.Quote)
	api.GET("/job-seekers/:id", middleware.UUIDValidator("id"), h.Profiles.GetSeeker)
	api.GET("/job-seekers/:id/ratings", middleware.UUIDValidator("id"), h.Applications.ListSeekerRatings)
	api.GET("/companies/:id", middleware.UUIDValidator("id"), h.Profiles.GetCompany)
	api.GET("/companies/:id/ratings", middleware.UUIDValidator("id"), h.Applications.ListCompanyRatings)
	api.GET("/ws", h.WS.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/notifications", h.Notifications.ListNotifications)
		protected.GET("/notifications/unread/count", h.Notifications.CountUnread)
		protected.POST("/notifications/read-all", h.Notifications.MarkAllAsRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notifications.MarkAsRead)

		protected.GET("/applications/:id", middleware.UUIDValidator("id"), h.Applications.Get)
		protected.GET("/applications/:id/ratings", middleware.UUIDValidator("id"), h.Applications.ListRatings)
		protected.POST("/applications/:id/cancel", middleware.UUIDValidator("id"), h.Applications.Cancel)
		protected.POST("/applications/:id/rating", middleware.UUIDValidator("id"), middleware.RequireRole(vo.RoleJobSeeker, vo.RoleCompany), h.Applications.Rate)
	}

	seeker := api.Group("/")
	seeker.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(vo.RoleJobSeeker))
	{
		seeker.GET("/seeker/profile", h.Profiles.GetMySeekerProfile)
		seeker.PUT("/seeker/profile", h.Profiles.UpdateMySeekerProfile)
		seeker.POST("/seeker/profile/photo", h.Profiles.UploadSeekerPhoto)
		seeker.GET("/seeker/applications", h.Applications.ListMine)
		seeker.GET("/seeker/dashboard", h.Dashboards.Seeker)
		seeker.POST("/jobs/:id/apply", middleware.UUIDValidator("id"), h.Applications.Apply)
	}

	company := api.Group("/")
	company.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(vo.RoleCompany))
	{
		company.GET("/company/profile", h.Profiles.GetMyCompanyProfile)
		company.PUT("/company/profile", h.Profiles.UpdateMyCompanyProfile)
		company.POST("/company/profile/logo", h.Profiles.UploadCompanyLogo)
		company.POST("/company/jobs", h.Jobs.Create)
		company.GET("/company/jobs", h.Jobs.ListMine)
		company.GET("/company/jobs/:id/applications", middleware.UUIDValidator("id"), h.Applications.ListForPosting)
		company.POST("/company/jobs/:id/complete", middleware.UUIDValidator("id"), h.Jobs.Complete)
		company.GET("/company/dashboard", h.Dashboards.Company)

		company.POST("/applications/:id/accept", middleware.UUIDValidator("id"), h.Applications.Accept)
		company.POST("/applications/:id/decline", middleware.UUIDValidator("id"), h.Applications.Decline)
		company.POST("/applications/:id/attendance", middleware.UUIDValidator("id"), h.Applications.ConfirmAttendance)
	}

	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRole(vo.RoleAdmin))
	{
		admin.GET("/admin/dashboard", h.Admin.Dashboard)

		admin.GET("/admin/companies", h.Admin.ListCompanies)
		admin.POST("/admin/companies/:id/approve", middleware.UUIDValidator("id"), h.Admin.ApproveCompany)
		admin.POST("/admin/companies/:id/reject", middleware.UUIDValidator("id"), h.Admin.RejectCompany)
		admin.POST("/admin/companies/:id/suspend", middleware.UUIDValidator("id"), h.Admin.SuspendCompany)

		admin.GET("/admin/job-seekers", h.Admin.ListJobSeekers)
		admin.POST("/admin/job-seekers/:id/suspend", middleware.UUIDValidator("id"), h.Admin.SuspendJobSeeker)
		admin.POST("/admin/job-seekers/:id/activate", middleware.UUIDValidator("id"), h.Admin.ActivateJobSeeker)

		admin.GET("/admin/jobs", h.Admin.ListJobs)
		admin.POST("/admin/jobs/:id/cancel", middleware.UUIDValidator("id"), h.Admin.CancelJob)

		admin.GET("/admin/settings", h.Admin.GetSettings)
		admin.PUT("/admin/settings", h.Admin.UpdateSettings)

		admin.GET("/alarm/status", h.Alarm.Status)
		admin.POST("/alarm/activate", h.Alarm.Activate)
		admin.POST("/alarm/deactivate", h.Alarm.Deactivate)

		if h.Seed != nil && cfg.Env == "development" {
			admin.POST("/dev/seed", h.Seed.Seed)
		}
	}

	return r
}
