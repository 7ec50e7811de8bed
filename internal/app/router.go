package app

import (
	"fitacademy_backend/docs"
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/middleware"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		academy := authGroup.Group("/academy")
		{
			academy.GET("/modules", c.academy.GetModules)
			academy.GET("/modules/:moduleId/progress", c.academy.GetModuleProgress)
			academy.POST("/modules/:moduleId/unlock-next", c.academy.UnlockNextModule)
			academy.POST("/lessons/:lessonId/complete", c.academy.CompleteLesson)
		}

		onboarding := authGroup.Group("/onboarding")
		{
			onboarding.GET("", c.onboarding.GetStatus)
			onboarding.POST("/advance", c.onboarding.Advance)
		}

		schemas := authGroup.Group("/schemas")
		{
			schemas.GET("/periods", c.schema.ListPeriods)
			schemas.POST("/:schemaId/periods", c.schema.StartPeriod)
			schemas.GET("/:schemaId/status", c.schema.GetStatus)
			schemas.POST("/:schemaId/days/complete", c.schema.CompleteDay)
			schemas.POST("/:schemaId/complete", c.schema.MarkCompleted)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/users/:userId/modules/:moduleId/evaluate", c.academy.AdminEvaluateModule)
		}
	}
}
