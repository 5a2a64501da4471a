package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the trainee's workout sessions.
type SessionHandler struct {
	sessionService     service.SessionService
	exerciseLogService service.ExerciseLogService
}

func NewSessionHandler(sessionService service.SessionService, exerciseLogService service.ExerciseLogService) *SessionHandler {
	return &SessionHandler{
		sessionService:     sessionService,
		exerciseLogService: exerciseLogService,
	}
}

// StartSessionRequest starts a session of a workout, optionally as a given
// day of a training plan.
type StartSessionRequest struct {
	WorkoutID string  `json:"workoutId" binding:"required"`
	PlanID    *string `json:"planId"`
	Week      int     `json:"week"`
	Day       int     `json:"day"`
}

type CompleteSessionRequest struct {
	Notes  *string `json:"notes"`
	Rating *int    `json:"rating"` // 1-5
}

type CreateExerciseLogRequest struct {
	PrescribedExerciseID string `json:"prescribedExerciseId" binding:"required"`
	ExerciseID           string `json:"exerciseId" binding:"required"`
}

type ArchiveURLResponse struct {
	URL string `json:"url"`
}

// StartSession godoc
// @Summary Start a workout session
// @Description Pins the current version of the workout. The session starts in the "started" status.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest true "Workout and optional plan position"
// @Success 201 {object} domain.WorkoutSession
// @Failure 400 {object} ErrorResponse "Invalid input or plan position"
// @Failure 404 {object} ErrorResponse "Workout or plan not found"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	workoutID, err := parseObjectID("workoutId", req.WorkoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	planID, err := parseOptionalObjectID("planId", req.PlanID)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), traineeID, service.StartSessionInput{
		WorkoutID: workoutID,
		PlanID:    planID,
		Week:      req.Week,
		Day:       req.Day,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary List the trainee's sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (started, in_progress, completed, abandoned)"
// @Success 200 {array} domain.WorkoutSession
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	var status *domain.SessionStatus
	if raw := c.Query("status"); raw != "" {
		st, err := domain.ParseSessionStatus(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		status = &st
	}

	sessions, err := h.sessionService.ListSessions(c.Request.Context(), traineeID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.WorkoutSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get a session with its exercise logs and sets
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} service.SessionDetail
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /sessions/{sessionId} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	traineeID, sessionID, ok := userAndID(c, "sessionId")
	if !ok {
		return
	}
	detail, err := h.sessionService.GetSession(c.Request.Context(), traineeID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CompleteSession godoc
// @Summary Complete a session
// @Description Freezes the session totals. A completed session and everything logged in it become read-only.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param completion body CompleteSessionRequest false "Notes and rating"
// @Success 200 {object} service.SessionDetail
// @Failure 400 {object} ErrorResponse "Invalid rating"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Session already finished"
// @Router /sessions/{sessionId}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	traineeID, sessionID, ok := userAndID(c, "sessionId")
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	detail, err := h.sessionService.CompleteSession(c.Request.Context(), traineeID, sessionID, service.CompleteSessionInput{
		Notes:  req.Notes,
		Rating: req.Rating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AbandonSession godoc
// @Summary Abandon a session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} domain.WorkoutSession
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Session already finished"
// @Router /sessions/{sessionId}/abandon [post]
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	traineeID, sessionID, ok := userAndID(c, "sessionId")
	if !ok {
		return
	}
	session, err := h.sessionService.AbandonSession(c.Request.Context(), traineeID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetArchiveURL godoc
// @Summary Get a download link for the archived copy of a completed session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} ArchiveURLResponse
// @Failure 404 {object} ErrorResponse "Session not found or not archived"
// @Router /sessions/{sessionId}/archive [get]
func (h *SessionHandler) GetArchiveURL(c *gin.Context) {
	traineeID, sessionID, ok := userAndID(c, "sessionId")
	if !ok {
		return
	}
	url, err := h.sessionService.GetArchiveURL(c.Request.Context(), traineeID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ArchiveURLResponse{URL: url})
}

// CreateExerciseLog godoc
// @Summary Start logging a prescribed exercise
// @Description Moves a started session to in_progress.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param log body CreateExerciseLogRequest true "Prescribed exercise"
// @Success 201 {object} domain.ExerciseLog
// @Failure 400 {object} ErrorResponse "Exercise not part of the workout"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Exercise already logged"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /sessions/{sessionId}/exercise-logs [post]
func (h *SessionHandler) CreateExerciseLog(c *gin.Context) {
	traineeID, sessionID, ok := userAndID(c, "sessionId")
	if !ok {
		return
	}
	var req CreateExerciseLogRequest
	if !bindJSON(c, &req) {
		return
	}
	prescribedID, err := parseObjectID("prescribedExerciseId", req.PrescribedExerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	exerciseID, err := parseObjectID("exerciseId", req.ExerciseID)
	if err != nil {
		respondError(c, err)
		return
	}

	exLog, err := h.exerciseLogService.CreateExerciseLog(c.Request.Context(), traineeID, sessionID, prescribedID, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exLog)
}
