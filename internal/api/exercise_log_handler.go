package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseLogHandler serves exercise logs and the sets logged under them.
type ExerciseLogHandler struct {
	exerciseLogService service.ExerciseLogService
	setLogService      service.SetLogService
}

func NewExerciseLogHandler(exerciseLogService service.ExerciseLogService, setLogService service.SetLogService) *ExerciseLogHandler {
	return &ExerciseLogHandler{
		exerciseLogService: exerciseLogService,
		setLogService:      setLogService,
	}
}

type ExerciseLogNotesRequest struct {
	Notes *string `json:"notes"`
}

// SetActualsRequest holds what the trainee performed. Omitted fields are
// left unchanged.
type SetActualsRequest struct {
	ActualReps            *int     `json:"actualReps"`
	ActualDurationSeconds *int     `json:"actualDurationSeconds"`
	ActualDistanceMeters  *float64 `json:"actualDistanceMeters"`
	Weight                *float64 `json:"weight"` // kg
	RPE                   *int     `json:"rpe"`    // 1-10
	IsWarmup              *bool    `json:"isWarmup"`
	IsFailure             *bool    `json:"isFailure"`
	Notes                 *string  `json:"notes"`
}

func (r SetActualsRequest) toUpdate() domain.SetLogUpdate {
	return domain.SetLogUpdate{
		ActualReps:            r.ActualReps,
		ActualDurationSeconds: r.ActualDurationSeconds,
		ActualDistanceMeters:  r.ActualDistanceMeters,
		Weight:                r.Weight,
		RPE:                   r.RPE,
		IsWarmup:              r.IsWarmup,
		IsFailure:             r.IsFailure,
		Notes:                 r.Notes,
	}
}

// CreateSetRequest logs a set. Without targets the set inherits the ones
// prescribed for the exercise.
type CreateSetRequest struct {
	SetNumber             int      `json:"setNumber"`
	TargetReps            *int     `json:"targetReps"`
	TargetDurationSeconds *int     `json:"targetDurationSeconds"`
	TargetDistanceMeters  *float64 `json:"targetDistanceMeters"`
	SetActualsRequest
}

// GetExerciseLog godoc
// @Summary Get an exercise log with its sets and aggregates
// @Tags Exercise Logs
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Exercise log ID"
// @Success 200 {object} service.ExerciseLogDetail
// @Failure 404 {object} ErrorResponse "Exercise log not found"
// @Router /exercise-logs/{logId} [get]
func (h *ExerciseLogHandler) GetExerciseLog(c *gin.Context) {
	traineeID, logID, ok := userAndID(c, "logId")
	if !ok {
		return
	}
	detail, err := h.exerciseLogService.GetExerciseLog(c.Request.Context(), traineeID, logID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// StartExerciseLog godoc
// @Summary Mark an exercise as started
// @Tags Exercise Logs
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Exercise log ID"
// @Success 200 {object} domain.ExerciseLog
// @Failure 404 {object} ErrorResponse "Exercise log not found"
// @Failure 409 {object} ErrorResponse "Exercise log not pending"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /exercise-logs/{logId}/start [post]
func (h *ExerciseLogHandler) StartExerciseLog(c *gin.Context) {
	traineeID, logID, ok := userAndID(c, "logId")
	if !ok {
		return
	}
	exLog, err := h.exerciseLogService.StartExerciseLog(c.Request.Context(), traineeID, logID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exLog)
}

// CompleteExerciseLog godoc
// @Summary Mark an exercise as completed
// @Tags Exercise Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Exercise log ID"
// @Param notes body ExerciseLogNotesRequest false "Notes"
// @Success 200 {object} domain.ExerciseLog
// @Failure 409 {object} ErrorResponse "Exercise log already finished"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /exercise-logs/{logId}/complete [post]
func (h *ExerciseLogHandler) CompleteExerciseLog(c *gin.Context) {
	traineeID, logID, ok := userAndID(c, "logId")
	if !ok {
		return
	}
	var req ExerciseLogNotesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	exLog, err := h.exerciseLogService.CompleteExerciseLog(c.Request.Context(), traineeID, logID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exLog)
}

// SkipExerciseLog godoc
// @Summary Skip an exercise
// @Tags Exercise Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Exercise log ID"
// @Param notes body ExerciseLogNotesRequest false "Reason"
// @Success 200 {object} domain.ExerciseLog
// @Failure 409 {object} ErrorResponse "Exercise log already finished"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /exercise-logs/{logId}/skip [post]
func (h *ExerciseLogHandler) SkipExerciseLog(c *gin.Context) {
	traineeID, logID, ok := userAndID(c, "logId")
	if !ok {
		return
	}
	var req ExerciseLogNotesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	exLog, err := h.exerciseLogService.SkipExerciseLog(c.Request.Context(), traineeID, logID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exLog)
}

// CreateSetLog godoc
// @Summary Log a set
// @Tags Exercise Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Exercise log ID"
// @Param set body CreateSetRequest true "Set number, targets and actuals"
// @Success 201 {object} service.SetLogView
// @Failure 400 {object} ErrorResponse "Invalid set (duplicate number, bad target or actual)"
// @Failure 404 {object} ErrorResponse "Exercise log not found"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /exercise-logs/{logId}/sets [post]
func (h *ExerciseLogHandler) CreateSetLog(c *gin.Context) {
	traineeID, logID, ok := userAndID(c, "logId")
	if !ok {
		return
	}
	var req CreateSetRequest
	if !bindJSON(c, &req) {
		return
	}

	set, err := h.setLogService.CreateSetLog(c.Request.Context(), traineeID, logID, service.CreateSetLogInput{
		SetNumber: req.SetNumber,
		Targets: domain.Targets{
			Reps:            req.TargetReps,
			DurationSeconds: req.TargetDurationSeconds,
			DistanceMeters:  req.TargetDistanceMeters,
		},
		Actuals: req.toUpdate(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}
