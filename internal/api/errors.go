package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps service and domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrImmutable):
		return http.StatusLocked
	case errors.Is(err, domain.ErrInvalidStateTransition), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts the request with the status matching err. Internal
// errors are logged and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("request_id", c.GetString(ContextRequestIDKey)).Error("request failed")
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "An unexpected error occurred", Kind: "internal"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Kind: domain.ErrorKind(err)})
}

// objectIDParam parses a path parameter as an ObjectID, aborting with 400 on
// malformed input.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// userAndID resolves the caller and the resource named by a path parameter.
func userAndID(c *gin.Context, param string) (userID, id primitive.ObjectID, ok bool) {
	if userID, ok = currentUserID(c); !ok {
		return
	}
	id, ok = objectIDParam(c, param)
	return
}

// parseObjectID converts a hex ID from a request body.
func parseObjectID(field, hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, &domain.ValidationError{Field: field, Reason: "is not a valid id"}
	}
	return id, nil
}

// parseOptionalObjectID converts an optional hex ID; nil and "" mean unset.
func parseOptionalObjectID(field string, hex *string) (*primitive.ObjectID, error) {
	if hex == nil || *hex == "" {
		return nil, nil
	}
	id, err := parseObjectID(field, *hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// bindJSON binds a required body.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// bindOptionalJSON binds a body the client may leave out entirely.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
