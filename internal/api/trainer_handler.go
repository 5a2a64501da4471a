package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs for Workout Management ---

// PrescribedExerciseRequest is one exercise entry of a workout. Exactly one
// target family is expected.
type PrescribedExerciseRequest struct {
	ID                    string   `json:"id"` // Keep the existing ID when editing a workout
	ExerciseID            string   `json:"exerciseId" binding:"required"`
	Sets                  int      `json:"sets" binding:"required,min=1"`
	TargetReps            *int     `json:"targetReps"`
	TargetDurationSeconds *int     `json:"targetDurationSeconds"`
	TargetDistanceMeters  *float64 `json:"targetDistanceMeters"`
	RestSeconds           int      `json:"restSeconds" binding:"min=0"`
	IsOptional            bool     `json:"isOptional"`
}

func (r PrescribedExerciseRequest) toDomain() (domain.PrescribedExercise, error) {
	exerciseID, err := parseObjectID("exerciseId", r.ExerciseID)
	if err != nil {
		return domain.PrescribedExercise{}, err
	}
	var id primitive.ObjectID
	if r.ID != "" {
		if id, err = parseObjectID("id", r.ID); err != nil {
			return domain.PrescribedExercise{}, err
		}
	}
	return domain.PrescribedExercise{
		ID:         id,
		ExerciseID: exerciseID,
		Sets:       r.Sets,
		Targets: domain.Targets{
			Reps:            r.TargetReps,
			DurationSeconds: r.TargetDurationSeconds,
			DistanceMeters:  r.TargetDistanceMeters,
		},
		RestSeconds: r.RestSeconds,
		IsOptional:  r.IsOptional,
	}, nil
}

type WorkoutRequest struct {
	Name      string                      `json:"name" binding:"required"`
	Notes     string                      `json:"notes"`
	TraineeID *string                     `json:"traineeId"` // Assign to one trainee; empty means any of the trainer's trainees
	IsPublic  bool                        `json:"isPublic"`
	Exercises []PrescribedExerciseRequest `json:"exercises" binding:"dive"`
}

func (r WorkoutRequest) toInput() (service.WorkoutInput, error) {
	traineeID, err := parseOptionalObjectID("traineeId", r.TraineeID)
	if err != nil {
		return service.WorkoutInput{}, err
	}
	exercises := make([]domain.PrescribedExercise, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		p, err := e.toDomain()
		if err != nil {
			return service.WorkoutInput{}, err
		}
		exercises = append(exercises, p)
	}
	return service.WorkoutInput{
		Name:      r.Name,
		Notes:     r.Notes,
		TraineeID: traineeID,
		IsPublic:  r.IsPublic,
		Exercises: exercises,
	}, nil
}

// --- DTOs for Training Plan Management ---

type PlanDayRequest struct {
	DayNumber  int      `json:"dayNumber" binding:"required,min=1"`
	WorkoutIDs []string `json:"workoutIds"`
}

type PlanWeekRequest struct {
	WeekNumber int              `json:"weekNumber" binding:"required,min=1"`
	Days       []PlanDayRequest `json:"days" binding:"dive"`
}

type TrainingPlanRequest struct {
	Name          string            `json:"name" binding:"required"`
	Description   string            `json:"description"`
	TraineeID     *string           `json:"traineeId"`
	DurationWeeks int               `json:"durationWeeks" binding:"required,min=1"`
	DaysPerWeek   int               `json:"daysPerWeek" binding:"required,min=1,max=7"`
	Weeks         []PlanWeekRequest `json:"weeks" binding:"dive"`
}

func (r TrainingPlanRequest) toInput() (service.TrainingPlanInput, error) {
	traineeID, err := parseOptionalObjectID("traineeId", r.TraineeID)
	if err != nil {
		return service.TrainingPlanInput{}, err
	}
	weeks := make([]domain.PlanWeek, 0, len(r.Weeks))
	for _, w := range r.Weeks {
		week := domain.PlanWeek{WeekNumber: w.WeekNumber, Days: make([]domain.PlanDay, 0, len(w.Days))}
		for _, d := range w.Days {
			day := domain.PlanDay{DayNumber: d.DayNumber, WorkoutIDs: make([]primitive.ObjectID, 0, len(d.WorkoutIDs))}
			for _, hex := range d.WorkoutIDs {
				id, err := parseObjectID("workoutIds", hex)
				if err != nil {
					return service.TrainingPlanInput{}, err
				}
				day.WorkoutIDs = append(day.WorkoutIDs, id)
			}
			week.Days = append(week.Days, day)
		}
		weeks = append(weeks, week)
	}
	return service.TrainingPlanInput{
		Name:          r.Name,
		Description:   r.Description,
		TraineeID:     traineeID,
		DurationWeeks: r.DurationWeeks,
		DaysPerWeek:   r.DaysPerWeek,
		Weeks:         weeks,
	}, nil
}

// --- Handler Methods for Workouts ---

// CreateWorkout godoc
// @Summary Create a workout
// @Description Creates a workout from exercises of the trainer's catalog. Totals are computed on save.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout content"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (not a trainer)"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /trainer/workouts [post]
func (h *TrainerHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	workout, err := h.trainerService.CreateWorkout(c.Request.Context(), trainerID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// UpdateWorkout godoc
// @Summary Replace the content of a workout
// @Description Bumps the workout version. Sessions already started keep the version they pinned.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout content"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Failure 409 {object} ErrorResponse "Concurrent edit"
// @Router /trainer/workouts/{workoutId} [put]
func (h *TrainerHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	workout, err := h.trainerService.UpdateWorkout(c.Request.Context(), trainerID, workoutID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// AddPrescribedExercise godoc
// @Summary Append an exercise to a workout
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param exercise body PrescribedExerciseRequest true "Prescribed exercise"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Workout not found"
// @Router /trainer/workouts/{workoutId}/exercises [post]
func (h *TrainerHandler) AddPrescribedExercise(c *gin.Context) {
	workoutID, ok := objectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req PrescribedExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	exercise, err := req.toDomain()
	if err != nil {
		respondError(c, err)
		return
	}

	workout, err := h.trainerService.AddPrescribedExercise(c.Request.Context(), trainerID, workoutID, exercise)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// GetWorkouts godoc
// @Summary List the trainer's workouts
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workout
// @Router /trainer/workouts [get]
func (h *TrainerHandler) GetWorkouts(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	workouts, err := h.trainerService.GetWorkoutsByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{} // Return empty JSON array, not null
	}
	c.JSON(http.StatusOK, workouts)
}

// --- Handler Methods for Training Plans ---

// CreateTrainingPlan godoc
// @Summary Create a training plan
// @Description Schedules the trainer's workouts over weeks and days.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body TrainingPlanRequest true "Plan details"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (not a trainer)"
// @Router /trainer/plans [post]
func (h *TrainerHandler) CreateTrainingPlan(c *gin.Context) {
	var req TrainingPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.trainerService.CreateTrainingPlan(c.Request.Context(), trainerID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetTrainingPlans godoc
// @Summary List the trainer's training plans
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TrainingPlan
// @Router /trainer/plans [get]
func (h *TrainerHandler) GetTrainingPlans(c *gin.Context) {
	trainerID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := h.trainerService.GetTrainingPlansByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}
