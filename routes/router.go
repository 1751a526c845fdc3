package routes

import (
	"complaint-tracker-backend/app/repository"
	"complaint-tracker-backend/app/service"
	"complaint-tracker-backend/config"
	"complaint-tracker-backend/middleware"
	"complaint-tracker-backend/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies dirakit di main.go lalu diserahkan ke NewRouter.
type Dependencies struct {
	Config     *config.Config
	Tokens     *utils.TokenManager
	Blocklist  repository.TokenBlocklist
	Limiter    *middleware.RateLimiter
	Auth       service.AuthService
	Complaints service.ComplaintService
	Feedback   service.FeedbackService
	Reports    service.ReportService
	Health     map[string]HealthCheck
}

// NewRouter menyusun engine gin beserta seluruh route /api/v1.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	// RequestLogger & Metrics di luar ErrorHandler: envelope error (dan panic yang
	// di-recover) sudah ditulis saat keduanya membaca status.
	r.Use(
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.ErrorHandler(cfg.IsDevelopment()),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes, cfg.HTTP.MaxUploadBytes),
	)
	r.HandleMethodNotAllowed = true
	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.NotFound())

	setupSystemRoutes(r, deps.Health)

	auth := middleware.AuthMiddleware(deps.Tokens, deps.Blocklist)
	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	api := r.Group("/api/v1")
	NewAuthHandler(deps.Auth, int(cfg.JWT.AccessTTL.Seconds()), int(cfg.JWT.RefreshTTL.Seconds())).
		SetupAuthRoutes(api, auth, limiter.Middleware())
	NewComplaintHandler(deps.Complaints).SetupComplaintRoutes(api, auth)
	NewFeedbackHandler(deps.Feedback).SetupFeedbackRoutes(api, auth)
	NewReportHandler(deps.Reports).SetupReportRoutes(api, auth)

	return r
}
