package app

import (
	"secaware_backend/docs"
	"secaware_backend/internal/config"
	"secaware_backend/internal/middleware"
	"secaware_backend/internal/model"
	"secaware_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Tracking callbacks are hit from recipients' mail clients: no auth, and
	// the paths stay outside /api so they look like ordinary links.
	track := router.Group("/track")
	{
		track.GET("/click/:emailId/:userId", c.tracking.Click)
		track.GET("/open/:emailId/:userId", c.tracking.Open)
		track.GET("/download/:emailId/:userId", c.tracking.Download)
	}

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.PUT("/auth/me", c.auth.UpdateProfile)
		authGroup.PUT("/auth/password", c.auth.ChangePassword)

		authGroup.GET("/courses", c.course.ListCourses)
		authGroup.GET("/courses/:id", c.course.GetCourse)
		authGroup.GET("/courses/:id/pages/:pageId", c.course.GetPage)

		authGroup.GET("/tests", c.test.ListTests)
		authGroup.GET("/tests/results", c.test.MyResults)
		authGroup.GET("/tests/:id", c.test.GetTest)
		authGroup.POST("/tests/:id/take", c.test.TakeTest)

		authGroup.GET("/reports/progress", c.report.MyProgress)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id", c.user.UpdateUser)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.POST("/notifications", c.user.SendNotification)

		admin.GET("/groups", c.group.ListGroups)
		admin.POST("/groups", c.group.CreateGroup)
		admin.GET("/groups/:id", c.group.GetGroup)
		admin.PUT("/groups/:id", c.group.UpdateGroup)
		admin.DELETE("/groups/:id", c.group.DeleteGroup)

		admin.POST("/courses", c.course.CreateCourse)
		admin.PUT("/courses/:id", c.course.UpdateCourse)
		admin.DELETE("/courses/:id", c.course.DeleteCourse)
		admin.POST("/courses/:id/pages", c.course.CreatePage)
		admin.PUT("/courses/:id/pages/:pageId", c.course.UpdatePage)
		admin.DELETE("/courses/:id/pages/:pageId", c.course.DeletePage)

		admin.POST("/tests", c.test.CreateTest)
		admin.PUT("/tests/:id", c.test.UpdateTest)
		admin.DELETE("/tests/:id", c.test.DeleteTest)
		admin.POST("/tests/:id/questions", c.test.CreateQuestion)
		admin.PUT("/questions/:id", c.test.UpdateQuestion)
		admin.DELETE("/questions/:id", c.test.DeleteQuestion)
		admin.POST("/questions/:id/answers", c.test.CreateAnswer)
		admin.PUT("/answers/:id", c.test.UpdateAnswer)
		admin.DELETE("/answers/:id", c.test.DeleteAnswer)

		admin.POST("/phishing/send", c.phishing.SendPhishingEmail)
		admin.GET("/phishing/history", c.phishing.History)

		admin.GET("/reports/activity", c.report.Activity)
		admin.GET("/reports/emails/:id/activity", c.report.EmailActivity)
		admin.GET("/reports/test-results", c.report.TestResults)
		admin.GET("/reports/users/:id", c.report.UserReport)
		admin.GET("/reports/dashboard", c.report.Dashboard)
	}
}
