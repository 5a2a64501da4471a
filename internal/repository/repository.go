package repository

import (
	"alcyxob/workout-tracker/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer. Services translate them into domain
// error kinds.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn atomically. Repositories called with the ctx handed to
// fn take part in the transaction; if fn returns an error nothing it wrote
// is kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error)
}

// SessionRepository stores workout sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	// GetForUpdate loads the session and takes its write lock for the rest of
	// the surrounding transaction. Every mutation of a session or of its
	// child records starts here.
	GetForUpdate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	ListByTrainee(ctx context.Context, traineeID primitive.ObjectID, status *domain.SessionStatus) ([]domain.WorkoutSession, error)
	Update(ctx context.Context, session *domain.WorkoutSession) error
}

// ExerciseLogRepository stores exercise logs. At most one log exists per
// (session, prescribed exercise).
type ExerciseLogRepository interface {
	Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error)
	Update(ctx context.Context, log *domain.ExerciseLog) error
}

// SetLogRepository stores set logs. Set numbers are unique per exercise log.
type SetLogRepository interface {
	Create(ctx context.Context, set *domain.SetLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetLog, error)
	ListByExerciseLog(ctx context.Context, exerciseLogID primitive.ObjectID) ([]domain.SetLog, error)
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error)
	Update(ctx context.Context, set *domain.SetLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanProgressRepository stores plan trackers, unique per (trainee, plan).
type PlanProgressRepository interface {
	Create(ctx context.Context, progress *domain.PlanProgress) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanProgress, error)
	GetByTraineeAndPlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*domain.PlanProgress, error)
	ListByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PlanProgress, error)
	Update(ctx context.Context, progress *domain.PlanProgress) error
}
