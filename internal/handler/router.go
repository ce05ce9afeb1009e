package handler

import (
	"crowdsight/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouterDeps collects everything NewRouter wires together
type RouterDeps struct {
	Logger         *logrus.Logger
	Tokens         middleware.TokenValidator
	AllowedOrigins []string
	Metrics        *middleware.Metrics
	RateLimiter    gin.HandlerFunc
	Timeout        gin.HandlerFunc

	Auth    *AuthHandler
	Reports *ReportHandler
	Uploads *UploadHandler
	System  *SystemHandler
}

// NewRouter builds the gin engine with the global middleware chain and all routes
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(d.Logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(d.Logger),
	)
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", d.Metrics.Handler())
	}
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	if d.Timeout != nil {
		router.Use(d.Timeout)
	}

	router.GET("/", d.System.Banner)
	router.GET("/health", d.System.Health)
	router.NoRoute(d.System.NotFound)

	limiter := d.RateLimiter
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api")
	authMW := middleware.JWTAuthMiddleware(d.Tokens)
	d.Auth.RegisterAuthRoutes(api, limiter, authMW)

	authed := api.Group("", authMW)
	d.Reports.RegisterReportRoutes(authed, middleware.AdminMiddleware())
	d.Uploads.RegisterUploadRoutes(authed)

	return router
}
