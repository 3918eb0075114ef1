package app

import (
	"quit_smoking_backend/docs"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/middleware"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerMemberRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/encouragement", c.encouragement.GetCurrent)
	}
}

func (a *App) registerMemberRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.GET("/user/smoking-profile", c.user.GetSmokingProfile)
	rg.PUT("/user/smoking-profile", c.user.UpdateSmokingProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// 戒烟计划
	rg.POST("/plans", c.plan.CreatePlan)
	rg.GET("/plans", c.plan.ListPlans)
	rg.GET("/plans/active", c.plan.GetActivePlan)
	rg.GET("/plans/:id", c.plan.GetPlan)
	rg.POST("/plans/:id/complete", c.plan.CompletePlan)

	// 每日打卡
	rg.POST("/plans/:id/progress", c.progress.RecordProgress)
	rg.GET("/plans/:id/progress", c.progress.GetProgress)

	// 统计
	rg.GET("/stats/savings", c.stats.GetSavings)
	rg.GET("/stats/streaks", c.stats.GetStreaks)

	// 成就
	rg.GET("/achievements", c.achievement.ListAchievements)
	rg.POST("/achievements/evaluate", c.achievement.Evaluate)
	rg.POST("/achievements/:id/share", c.achievement.Share)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/achievements", c.achievement.CreateDefinition)
		admin.PUT("/achievements/:id", c.achievement.UpdateDefinition)
		admin.DELETE("/achievements/:id", c.achievement.DeleteDefinition)

		admin.GET("/encouragements", c.encouragement.GetAll)
		admin.POST("/encouragements", c.encouragement.Create)
		admin.PUT("/encouragements/:id", c.encouragement.Update)
		admin.DELETE("/encouragements/:id", c.encouragement.Delete)
		admin.POST("/encouragements/:id/switch", c.encouragement.Switch)
	}
}
