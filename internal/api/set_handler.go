package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type SetHandler struct {
	setLogService service.SetLogService
}

func NewSetHandler(setLogService service.SetLogService) *SetHandler {
	return &SetHandler{setLogService: setLogService}
}

// GetSetLog godoc
// @Summary Get a set
// @Tags Sets
// @Produce json
// @Security BearerAuth
// @Param setId path string true "Set log ID"
// @Success 200 {object} service.SetLogView
// @Failure 404 {object} ErrorResponse "Set not found"
// @Router /sets/{setId} [get]
func (h *SetHandler) GetSetLog(c *gin.Context) {
	traineeID, setID, ok := userAndID(c, "setId")
	if !ok {
		return
	}
	set, err := h.setLogService.GetSetLog(c.Request.Context(), traineeID, setID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// UpdateSetLog godoc
// @Summary Update the actuals of a set
// @Description Only the fields present in the body change.
// @Tags Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param setId path string true "Set log ID"
// @Param set body SetActualsRequest true "Changed actuals"
// @Success 200 {object} service.SetLogView
// @Failure 400 {object} ErrorResponse "Invalid actual"
// @Failure 404 {object} ErrorResponse "Set not found"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /sets/{setId} [patch]
func (h *SetHandler) UpdateSetLog(c *gin.Context) {
	traineeID, setID, ok := userAndID(c, "setId")
	if !ok {
		return
	}
	var req SetActualsRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := h.setLogService.UpdateSetLog(c.Request.Context(), traineeID, setID, req.toUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// CompleteSetLog godoc
// @Summary Mark a set as done
// @Tags Sets
// @Produce json
// @Security BearerAuth
// @Param setId path string true "Set log ID"
// @Success 200 {object} service.SetLogView
// @Failure 400 {object} ErrorResponse "Set has no recorded actual"
// @Failure 409 {object} ErrorResponse "Set already completed"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /sets/{setId}/complete [post]
func (h *SetHandler) CompleteSetLog(c *gin.Context) {
	traineeID, setID, ok := userAndID(c, "setId")
	if !ok {
		return
	}
	set, err := h.setLogService.CompleteSetLog(c.Request.Context(), traineeID, setID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// DeleteSetLog godoc
// @Summary Delete a set
// @Tags Sets
// @Security BearerAuth
// @Param setId path string true "Set log ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Set not found"
// @Failure 423 {object} ErrorResponse "Session completed"
// @Router /sets/{setId} [delete]
func (h *SetHandler) DeleteSetLog(c *gin.Context) {
	traineeID, setID, ok := userAndID(c, "setId")
	if !ok {
		return
	}
	if err := h.setLogService.DeleteSetLog(c.Request.Context(), traineeID, setID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
