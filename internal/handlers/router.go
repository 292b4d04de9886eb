package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/SAP-F-2025/courseware-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	activityHandler   *ActivityHandler
	reviewHandler     *ReviewHandler
}

type Controllers struct {
	Auth        *controllers.AuthController
	Courses     *controllers.CourseController
	Categories  *controllers.CategoryController
	Groups      *controllers.GroupController
	Enrollments *controllers.EnrollmentController
	Memberships *controllers.MembershipController
	Activities  *controllers.ActivityController
	Assessments *controllers.AssessmentController
}

func NewHandlerManager(
	ctrl Controllers,
	exporter services.ExportService,
	v *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(ctrl.Auth, logger),
		courseHandler:     NewCourseHandler(ctrl.Courses, ctrl.Categories, ctrl.Groups, v, logger),
		enrollmentHandler: NewEnrollmentHandler(ctrl.Enrollments, ctrl.Memberships, logger),
		activityHandler:   NewActivityHandler(ctrl.Activities, v, logger),
		reviewHandler:     NewReviewHandler(ctrl.Assessments, exporter, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", hm.authHandler.Login)
			auth.POST("/signup", hm.authHandler.Signup)
			auth.POST("/verify-email", hm.authHandler.VerifyEmail)
			auth.POST("/refresh", hm.authHandler.Refresh)
			auth.POST("/logout", hm.authHandler.Logout)
			auth.POST("/restore/:user_id", hm.authHandler.Restore)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.courseHandler.UpdateCourse)
			courses.GET("/teacher/:teacher_id", hm.courseHandler.GetCoursesByTeacher)
			courses.GET("/student/:student_id", hm.courseHandler.GetEnrolledCourses)
			courses.GET("/:id/categories", hm.courseHandler.GetCategories)
			courses.GET("/:id/enrollments", hm.enrollmentHandler.GetRoster)
			courses.GET("/:id/activities", hm.activityHandler.GetActivities)
			courses.GET("/:id/review-summary", hm.reviewHandler.GetCourseSummary)
			courses.GET("/:id/review-summary/export", hm.reviewHandler.ExportCourseSummary)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", hm.courseHandler.CreateCategory)
			categories.PUT("/:id", hm.courseHandler.UpdateCategory)
			categories.GET("/:id/groups", hm.courseHandler.GetGroups)
		}

		groups := v1.Group("/groups")
		{
			groups.POST("", hm.courseHandler.CreateGroup)
			groups.GET("/:id/members", hm.courseHandler.GetGroupMembers)
		}

		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("/join", hm.enrollmentHandler.JoinCourse)
			enrollments.POST("/leave", hm.enrollmentHandler.LeaveCourse)
		}

		memberships := v1.Group("/memberships")
		{
			memberships.POST("/join", hm.enrollmentHandler.JoinGroup)
		}

		activities := v1.Group("/activities")
		{
			activities.POST("", hm.activityHandler.CreateActivity)
			activities.PUT("/:id", hm.activityHandler.UpdateActivity)
			activities.GET("/:id/reviews/:reviewer_id", hm.reviewHandler.GetMyAssessments)
			activities.GET("/:id/pending/:reviewer_id", hm.reviewHandler.GetPendingPeers)
			activities.GET("/:id/groups/:group_id/stats", hm.reviewHandler.GetGroupStats)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.POST("", hm.reviewHandler.SubmitAssessment)
		}
	}
}

// HealthCheck returns service health status
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "courseware-service",
	})
}
