package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/handler"
	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/middleware"
)

// Options 路由依赖
type Options struct {
	ServiceName string
	CORS        config.CORSConfig
	Verifier    middleware.TokenVerifier
	Logger      *logger.Logger
}

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware(opts.Logger))
	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(middleware.LoggingMiddleware(opts.Logger))
	r.Use(cors.New(corsConfig(opts.CORS)))

	requireAuth := middleware.RequireAuth(opts.Verifier)
	optionalAuth := middleware.OptionalAuth(opts.Verifier)

	// 健康检查
	r.GET("/health", h.System.Health)
	r.GET("/healthcheck", h.System.Healthcheck)

	// 行程规划对话
	planner := r.Group("/travelPlanner", optionalAuth)
	{
		planner.POST("/chat", h.Chat.Chat)
		planner.GET("/chat/sessions", h.Chat.ListSessions)
	}

	// 预订
	bookings := r.Group("/bookings", requireAuth)
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("", h.Booking.List)
		bookings.GET("/:id", h.Booking.Get)
		bookings.PUT("/:id/cancel", h.Booking.Cancel)
	}

	// 酒店
	hotels := r.Group("/hotels")
	{
		hotels.GET("/search", h.Hotel.Search)
		hotels.GET("/:id", h.Hotel.Details)
		hotels.GET("/:id/availability", h.Hotel.Availability)
	}

	// 用户资料
	users := r.Group("/users", requireAuth)
	{
		users.POST("", h.Profile.Upsert)
		users.GET("/:id", h.Profile.Get)
		users.PUT("/:id/interests", h.Profile.UpdateInterests)
	}

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3001"}
	}
	maxAge := time.Duration(cfg.MaxAge) * time.Second
	if maxAge <= 0 {
		maxAge = 84900 * time.Second
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           maxAge,
	}
}
