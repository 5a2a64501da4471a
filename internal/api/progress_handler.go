package api

import (
	"context"
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressHandler serves the trainee's training plan trackers.
type ProgressHandler struct {
	progressService service.PlanProgressService
}

func NewProgressHandler(progressService service.PlanProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// StartPlan godoc
// @Summary Start following a training plan
// @Description Creates the tracker at week 1, day 1, or resets a finished one.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Training plan ID"
// @Success 201 {object} service.PlanProgressView
// @Failure 404 {object} ErrorResponse "Plan not found"
// @Failure 409 {object} ErrorResponse "Plan already in progress"
// @Router /plans/{planId}/progress [post]
func (h *ProgressHandler) StartPlan(c *gin.Context) {
	traineeID, planID, ok := userAndID(c, "planId")
	if !ok {
		return
	}
	view, err := h.progressService.StartPlan(c.Request.Context(), traineeID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListProgress godoc
// @Summary List the trainee's plan trackers
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PlanProgress
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	traineeID, ok := currentUserID(c)
	if !ok {
		return
	}
	trackers, err := h.progressService.ListProgress(c.Request.Context(), traineeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if trackers == nil {
		trackers = []domain.PlanProgress{}
	}
	c.JSON(http.StatusOK, trackers)
}

// GetProgress godoc
// @Summary Get a plan tracker with today's workouts
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 404 {object} ErrorResponse "Tracker not found"
// @Router /progress/{trackerId} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	h.respond(c, h.progressService.GetProgress)
}

// AdvanceDay godoc
// @Summary Move to the next plan day
// @Description Rolls over to the next week after the last day; advancing past the final day completes the plan.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 404 {object} ErrorResponse "Tracker not found"
// @Failure 409 {object} ErrorResponse "Tracker not active"
// @Router /progress/{trackerId}/advance [post]
func (h *ProgressHandler) AdvanceDay(c *gin.Context) {
	h.respond(c, h.progressService.AdvanceDay)
}

// Pause godoc
// @Summary Pause an active tracker
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 409 {object} ErrorResponse "Tracker not active"
// @Router /progress/{trackerId}/pause [post]
func (h *ProgressHandler) Pause(c *gin.Context) {
	h.respond(c, h.progressService.Pause)
}

// Resume godoc
// @Summary Resume a paused tracker
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 409 {object} ErrorResponse "Tracker not paused"
// @Router /progress/{trackerId}/resume [post]
func (h *ProgressHandler) Resume(c *gin.Context) {
	h.respond(c, h.progressService.Resume)
}

// Abandon godoc
// @Summary Abandon a tracker
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 409 {object} ErrorResponse "Tracker already finished"
// @Router /progress/{trackerId}/abandon [post]
func (h *ProgressHandler) Abandon(c *gin.Context) {
	h.respond(c, h.progressService.Abandon)
}

// Restart godoc
// @Summary Restart a tracker from week 1, day 1
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param trackerId path string true "Tracker ID"
// @Success 200 {object} service.PlanProgressView
// @Failure 404 {object} ErrorResponse "Tracker not found"
// @Router /progress/{trackerId}/restart [post]
func (h *ProgressHandler) Restart(c *gin.Context) {
	h.respond(c, h.progressService.Restart)
}

type trackerOp func(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*service.PlanProgressView, error)

func (h *ProgressHandler) respond(c *gin.Context, op trackerOp) {
	traineeID, trackerID, ok := userAndID(c, "trackerId")
	if !ok {
		return
	}
	view, err := op(c.Request.Context(), traineeID, trackerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
