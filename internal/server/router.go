// Package server assembles the HTTP surface and runs it.
package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-website-api/internal/handler"
	internalmiddleware "github.com/noah-isme/school-website-api/internal/middleware"
	"github.com/noah-isme/school-website-api/internal/service"
	"github.com/noah-isme/school-website-api/pkg/config"
	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-website-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-website-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-website-api/pkg/response"
)

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Students      *handler.StudentHandler
	Announcements *handler.AnnouncementHandler
	Instagram     *handler.InstagramHandler
	Metrics       *handler.MetricsHandler
}

// RouterOptions controls which optional surfaces are mounted.
type RouterOptions struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
	MetricsEnabled bool
	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

// NewRouter builds the gin engine with middleware, resource routes and operational endpoints.
func NewRouter(opts RouterOptions, h Handlers, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if opts.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.MetricsEnabled {
		r.Use(internalmiddleware.Metrics(metrics, "/metrics"))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "Can't find "+c.Request.URL.Path+" on this server"))
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.MetricsEnabled {
		r.GET("/metrics", h.Metrics.Prometheus)
		r.GET("/metrics/summary", h.Metrics.Summary)
	}
	if opts.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if opts.UploadsDir != "" {
		r.StaticFS("/uploads", gin.Dir(opts.UploadsDir, false))
	}

	api := r.Group(apiPrefix(opts.APIPrefix))
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "School website API"})
	})

	students := api.Group("/students", internalmiddleware.Audit(logr, "student"))
	students.GET("", h.Students.List)
	students.GET("/birthdays/today", h.Students.TodaysBirthdays)
	students.GET("/:id", h.Students.Get)
	students.POST("", h.Students.Create)
	students.PATCH("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.POST("/:id/upload-profile", h.Students.UploadProfile)

	announcements := api.Group("/announcements", internalmiddleware.Audit(logr, "announcement"))
	announcements.GET("", h.Announcements.List)
	announcements.GET("/recent", h.Announcements.Recent)
	announcements.GET("/featured", h.Announcements.Featured)
	announcements.GET("/category/:category", h.Announcements.ByCategory)
	announcements.GET("/:id", h.Announcements.Get)
	announcements.POST("", h.Announcements.Create)
	announcements.PATCH("/:id", h.Announcements.Update)
	announcements.DELETE("/:id", h.Announcements.Delete)
	announcements.POST("/:id/upload-image", h.Announcements.UploadImage)

	instagram := api.Group("/instagram")
	instagram.GET("/feed", h.Instagram.Feed)
	instagram.GET("/account", h.Instagram.Account)

	return r
}

func apiPrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return ""
	}
	return prefix
}
