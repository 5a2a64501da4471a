package service

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stores bundles the repositories the workout engine runs against. Tx must
// cover every repository in the bundle.
type Stores struct {
	Tx           repository.Transactor
	Users        repository.UserRepository
	Workouts     repository.WorkoutRepository
	Plans        repository.TrainingPlanRepository
	Sessions     repository.SessionRepository
	ExerciseLogs repository.ExerciseLogRepository
	SetLogs      repository.SetLogRepository
	Progress     repository.PlanProgressRepository
}

// lockSession takes the session lock and checks ownership. Another trainee's
// session is reported as missing.
func (st Stores) lockSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := st.Sessions.GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, entitySession, sessionID)
	}
	if session.TraineeID != traineeID {
		return nil, &domain.NotFoundError{Entity: entitySession, ID: sessionID.Hex()}
	}
	return session, nil
}

func (st Stores) ownedSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := st.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, entitySession, sessionID)
	}
	if session.TraineeID != traineeID {
		return nil, &domain.NotFoundError{Entity: entitySession, ID: sessionID.Hex()}
	}
	return session, nil
}

func (st Stores) ownedExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	exLog, err := st.ExerciseLogs.GetByID(ctx, logID)
	if err != nil {
		return nil, notFound(err, entityExerciseLog, logID)
	}
	if exLog.TraineeID != traineeID {
		return nil, &domain.NotFoundError{Entity: entityExerciseLog, ID: logID.Hex()}
	}
	return exLog, nil
}

func (st Stores) ownedSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) (*domain.SetLog, error) {
	set, err := st.SetLogs.GetByID(ctx, setID)
	if err != nil {
		return nil, notFound(err, entitySetLog, setID)
	}
	if set.TraineeID != traineeID {
		return nil, &domain.NotFoundError{Entity: entitySetLog, ID: setID.Hex()}
	}
	return set, nil
}

func (st Stores) ownedTracker(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*domain.PlanProgress, error) {
	progress, err := st.Progress.GetByID(ctx, trackerID)
	if err != nil {
		return nil, notFound(err, entityTracker, trackerID)
	}
	if progress.TraineeID != traineeID {
		return nil, &domain.NotFoundError{Entity: entityTracker, ID: trackerID.Hex()}
	}
	return progress, nil
}
