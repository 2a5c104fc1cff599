package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerReviewerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// The course catalog is browsable without an account; only
		// published courses are listed.
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.GET("/courses/:id/lessons", c.course.LearnerView)
	rg.POST("/lessons/:id/complete", c.course.MarkComplete)

	rg.POST("/lessons/:id/quiz/submit", c.submission.SubmitQuiz)
	rg.POST("/lessons/:id/project/submit", c.submission.SubmitProject)
	rg.GET("/lessons/:id/submission", c.submission.GetSubmission)

	rg.GET("/courses/:id/grade", c.grade.GetGrade)
	rg.GET("/courses/:id/certificate", c.grade.GetCertificate)
	rg.POST("/courses/:id/certificate", c.grade.IssueCertificate)

	rg.GET("/dashboard/activity", c.dashboard.Activity)
	rg.GET("/dashboard/overview", c.dashboard.Overview)

	rg.POST("/uploads", c.upload.Upload)
}

func (a *App) registerReviewerRoutes(rg *gin.RouterGroup, c *controllers) {
	review := rg.Group("/review")
	review.Use(middleware.RoleMiddleware(model.Reviewer))
	{
		review.GET("/quizzes", c.review.PendingQuizzes)
		review.GET("/projects", c.review.PendingProjects)
		review.POST("/quizzes/:id", c.review.ReviewQuiz)
		review.POST("/projects/:id", c.review.ReviewProject)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.admin.CreateCourse)
		admin.POST("/courses/:id/lessons", c.admin.AddLesson)
		admin.POST("/courses/:id/publish", c.admin.PublishCourse)
		admin.POST("/lessons/:id/video", c.admin.UploadLessonVideo)
	}
}
