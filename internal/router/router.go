package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/intervue/intervue-backend/internal/config"
	"github.com/intervue/intervue-backend/internal/handler"
	"github.com/intervue/intervue-backend/internal/middleware"
	"github.com/intervue/intervue-backend/internal/response"
	"github.com/intervue/intervue-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Candidate *handler.CandidateHandler
	Interview *handler.InterviewHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded resumes statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the login route (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireInterviewerJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireInterviewerJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. API Group (Interviewer JWT) ────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireInterviewerJWT(authService))
	{
		api.POST("/candidates/parse-resume", handlers.Candidate.ParseResume)
		api.POST("/candidates", handlers.Candidate.Register)
		api.GET("/candidates", handlers.Candidate.List)
		api.GET("/candidates/:id", handlers.Candidate.Get)
		api.PUT("/candidates/:id/identity", handlers.Candidate.UpdateIdentity)
		api.GET("/dashboard", handlers.Candidate.Dashboard)

		api.POST("/candidates/:id/interview/start", handlers.Interview.Start)
		api.POST("/candidates/:id/interview/answer", handlers.Interview.Answer)
		api.GET("/candidates/:id/interview/:index", handlers.Interview.Status)
		api.POST("/candidates/:id/interview/retake", handlers.Interview.Retake)
	}

	// ─── 3. WebSocket Group (Interviewer WS Auth) ──────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireInterviewerWSAuth(authService))
	{
		ws.GET("/candidates/:id/monitor", handlers.WS.MonitorCandidate)
	}

	return router
}
