package service

import (
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notFound turns a repository miss into the domain NotFound kind and passes
// every other error through.
func notFound(err error, entity string, id primitive.ObjectID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id.Hex()}
	}
	return err
}

// Entity names used in error messages.
const (
	entitySession     = "workout session"
	entityExerciseLog = "exercise log"
	entitySetLog      = "set log"
	entityTracker     = "plan progress"
	entityWorkout     = "workout"
	entityPlan        = "training plan"
	entityExercise    = "exercise"
	entityUser        = "user"
)
