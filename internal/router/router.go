package router

import (
	"net/http"

	"github.com/ashwinyue/agri-assist/internal/handler"
	"github.com/ashwinyue/agri-assist/internal/middleware"
	"github.com/ashwinyue/agri-assist/web"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 前端页面
	ui := web.Handler()
	r.GET("/", gin.WrapH(ui))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			handler.NotFound(c, "route not found")
			return
		}
		ui.ServeHTTP(c.Writer, c.Request)
	})

	// 健康检查
	r.GET("/health", h.System.Health)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Session 会话
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Session.CreateSession)
			sessions.DELETE("/:id", h.Session.DeleteSession)
			sessions.GET("/:id/messages", h.Session.GetMessages)
			sessions.POST("/:id/messages", h.Session.SendMessage)
			sessions.POST("/:id/images", h.Session.ClassifyImage)
			sessions.POST("/:id/reset", h.Session.ResetSession)
		}

		v1.GET("/tools", h.System.ListTools)
		v1.GET("/labels", h.System.ListLabels)
	}

	return r
}
