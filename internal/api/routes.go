package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain" // Needed for RoleMiddleware
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Exercises    service.ExerciseService
	Trainer      service.TrainerService
	Sessions     service.SessionService
	ExerciseLogs service.ExerciseLogService
	Sets         service.SetLogService
	Progress     service.PlanProgressService
}

// MetricsEndpoint exposes the Prometheus handler; a nil Handler disables it.
type MetricsEndpoint struct {
	Path    string
	Handler http.Handler
}

func SetupRoutes(router *gin.Engine, services Services, m *metrics.Manager, metricsEndpoint MetricsEndpoint) {
	authHandler := NewAuthHandler(services.Auth)
	exerciseHandler := NewExerciseHandler(services.Exercises)
	trainerHandler := NewTrainerHandler(services.Trainer)
	sessionHandler := NewSessionHandler(services.Sessions, services.ExerciseLogs)
	exerciseLogHandler := NewExerciseLogHandler(services.ExerciseLogs, services.Sets)
	setHandler := NewSetHandler(services.Sets)
	progressHandler := NewProgressHandler(services.Progress)

	router.Use(RequestLogger(), Metrics(m))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsEndpoint.Handler != nil {
		router.GET(metricsEndpoint.Path, gin.WrapH(metricsEndpoint.Handler))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.GetTrainerExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
		}

		// --- Trainer Specific Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/workouts", trainerHandler.CreateWorkout)
			trainerGroup.GET("/workouts", trainerHandler.GetWorkouts)
			trainerGroup.PUT("/workouts/:workoutId", trainerHandler.UpdateWorkout)
			trainerGroup.POST("/workouts/:workoutId/exercises", trainerHandler.AddPrescribedExercise)

			trainerGroup.POST("/plans", trainerHandler.CreateTrainingPlan)
			trainerGroup.GET("/plans", trainerHandler.GetTrainingPlans)
		}

		// --- Trainee Routes ---
		trainee := protected.Group("")
		trainee.Use(RoleMiddleware(domain.RoleTrainee))
		{
			sessions := trainee.Group("/sessions")
			{
				sessions.POST("", sessionHandler.StartSession)
				sessions.GET("", sessionHandler.ListSessions)
				sessions.GET("/:sessionId", sessionHandler.GetSession)
				sessions.POST("/:sessionId/complete", sessionHandler.CompleteSession)
				sessions.POST("/:sessionId/abandon", sessionHandler.AbandonSession)
				sessions.GET("/:sessionId/archive", sessionHandler.GetArchiveURL)
				sessions.POST("/:sessionId/exercise-logs", sessionHandler.CreateExerciseLog)
			}

			logs := trainee.Group("/exercise-logs")
			{
				logs.GET("/:logId", exerciseLogHandler.GetExerciseLog)
				logs.POST("/:logId/start", exerciseLogHandler.StartExerciseLog)
				logs.POST("/:logId/complete", exerciseLogHandler.CompleteExerciseLog)
				logs.POST("/:logId/skip", exerciseLogHandler.SkipExerciseLog)
				logs.POST("/:logId/sets", exerciseLogHandler.CreateSetLog)
			}

			sets := trainee.Group("/sets")
			{
				sets.GET("/:setId", setHandler.GetSetLog)
				sets.PATCH("/:setId", setHandler.UpdateSetLog)
				sets.POST("/:setId/complete", setHandler.CompleteSetLog)
				sets.DELETE("/:setId", setHandler.DeleteSetLog)
			}

			trainee.POST("/plans/:planId/progress", progressHandler.StartPlan)
			progress := trainee.Group("/progress")
			{
				progress.GET("", progressHandler.ListProgress)
				progress.GET("/:trackerId", progressHandler.GetProgress)
				progress.POST("/:trackerId/advance", progressHandler.AdvanceDay)
				progress.POST("/:trackerId/pause", progressHandler.Pause)
				progress.POST("/:trackerId/resume", progressHandler.Resume)
				progress.POST("/:trackerId/abandon", progressHandler.Abandon)
				progress.POST("/:trackerId/restart", progressHandler.Restart)
			}
		}
	}
}
