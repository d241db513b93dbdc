package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/handler"
	"github.com/jengzang/safeguard-backend/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health       *handler.HealthHandler
	Heatmap      *handler.HeatmapHandler
	Auth         *handler.AuthHandler
	Contacts     *handler.ContactHandler
	Emergency    *handler.EmergencyHandler
	Polls        *handler.PollHandler
	News         *handler.NewsHandler
	Verification *handler.VerificationHandler
	Legal        *handler.LegalHandler
	Geocoding    *handler.GeocodingHandler
}

// Options carries the cross-cutting pieces of the router
type Options struct {
	Tokens      middleware.TokenParser
	AdminEmails []string            // accounts allowed on /api/admin
	Limiter     middleware.Limiter  // nil disables rate limiting
	Metrics     *middleware.Metrics // nil disables request metrics
	Gatherer    prometheus.Gatherer // served on /metrics when set
	Log         *zap.Logger
}

// cors 中间件
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupRouter 设置路由
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors())
	r.Use(middleware.Logger(opts.Log))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler())
	}

	// 健康检查
	r.GET("/", h.Health.Root)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	if opts.Limiter != nil {
		api.Use(middleware.RateLimit(opts.Limiter, opts.Log))
	}
	requireAuth := middleware.JWTAuth(opts.Tokens, opts.Log)

	api.GET("/health", h.Health.Health)

	// 公共接口
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/heatmap", h.Heatmap.GetHeatmap)
	api.POST("/safety-poll", h.Polls.Submit)
	api.GET("/safety-polls", h.Polls.List)
	api.GET("/news", h.News.Recent)
	api.POST("/verify-image", h.Verification.VerifyImage)
	api.GET("/verification-status/:user_id", h.Verification.Status)

	legal := api.Group("/legal")
	{
		legal.POST("/ask", h.Legal.Ask)
		legal.GET("/health", h.Legal.Health)
	}

	// 需要登录的接口
	authed := api.Group("", requireAuth)
	{
		authed.POST("/news", h.News.Submit)

		contacts := authed.Group("/contacts")
		{
			contacts.GET("", h.Contacts.List)
			contacts.POST("", h.Contacts.Add)
			contacts.PUT("/:id", h.Contacts.Update)
			contacts.DELETE("/:id", h.Contacts.Delete)
		}

		emergency := authed.Group("/emergency")
		{
			emergency.POST("/sos", h.Emergency.SendSOS)
			emergency.POST("/send-location", h.Emergency.SendLocation)
			emergency.GET("/history", h.Emergency.History)
		}

		geocoding := authed.Group("/admin/geocoding", middleware.RequireAdmin(opts.AdminEmails, opts.Log))
		{
			geocoding.POST("/tasks", h.Geocoding.CreateTask)
			geocoding.GET("/tasks", h.Geocoding.ListTasks)
			geocoding.GET("/tasks/:id", h.Geocoding.GetTask)
			geocoding.DELETE("/tasks/:id", h.Geocoding.CancelTask)
		}
	}

	return r
}
