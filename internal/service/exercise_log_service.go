package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLogService records trainees performing the exercises of a session.
type ExerciseLogService interface {
	CreateExerciseLog(ctx context.Context, traineeID, sessionID, prescribedExerciseID, exerciseID primitive.ObjectID) (*domain.ExerciseLog, error)
	GetExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID) (*ExerciseLogDetail, error)
	StartExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID) (*domain.ExerciseLog, error)
	CompleteExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID, notes *string) (*domain.ExerciseLog, error)
	SkipExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID, notes *string) (*domain.ExerciseLog, error)
}

type exerciseLogService struct {
	stores Stores
	clock  domain.Clock
}

func NewExerciseLogService(stores Stores, clock domain.Clock) ExerciseLogService {
	return &exerciseLogService{stores: stores, clock: clock}
}

// CreateExerciseLog opens a pending log for a prescribed exercise. The first
// log of a started session moves the session to in_progress.
func (s *exerciseLogService) CreateExerciseLog(ctx context.Context, traineeID, sessionID, prescribedExerciseID, exerciseID primitive.ObjectID) (*domain.ExerciseLog, error) {
	var exLog *domain.ExerciseLog
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.stores.lockSession(ctx, traineeID, sessionID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		exLog, err = domain.NewExerciseLog(session, prescribedExerciseID, exerciseID, now)
		if err != nil {
			return err
		}
		if _, err := s.stores.ExerciseLogs.Create(ctx, exLog); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &domain.ConflictError{Entity: entityExerciseLog, Reason: "the prescribed exercise is already logged in this session"}
			}
			return err
		}
		return s.markSessionInProgress(ctx, session, now)
	})
	if err != nil {
		return nil, err
	}
	return exLog, nil
}

func (s *exerciseLogService) GetExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID) (*ExerciseLogDetail, error) {
	exLog, err := s.stores.ownedExerciseLog(ctx, traineeID, logID)
	if err != nil {
		return nil, err
	}
	session, err := s.stores.Sessions.GetByID(ctx, exLog.SessionID)
	if err != nil {
		return nil, notFound(err, entitySession, exLog.SessionID)
	}
	sets, err := s.stores.SetLogs.ListByExerciseLog(ctx, exLog.ID)
	if err != nil {
		return nil, err
	}
	detail := newExerciseLogDetail(session, *exLog, sets)
	return &detail, nil
}

func (s *exerciseLogService) StartExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID) (*domain.ExerciseLog, error) {
	return s.mutate(ctx, traineeID, logID, func(session *domain.WorkoutSession, exLog *domain.ExerciseLog, now time.Time) error {
		return exLog.Start(session, now)
	})
}

func (s *exerciseLogService) CompleteExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID, notes *string) (*domain.ExerciseLog, error) {
	return s.mutate(ctx, traineeID, logID, func(session *domain.WorkoutSession, exLog *domain.ExerciseLog, now time.Time) error {
		return exLog.Complete(session, notes, now)
	})
}

func (s *exerciseLogService) SkipExerciseLog(ctx context.Context, traineeID, logID primitive.ObjectID, notes *string) (*domain.ExerciseLog, error) {
	return s.mutate(ctx, traineeID, logID, func(session *domain.WorkoutSession, exLog *domain.ExerciseLog, now time.Time) error {
		return exLog.Skip(session, notes, now)
	})
}

// mutate applies fn to the log under its session's lock. The log is re-read
// after the lock is taken so fn never acts on a stale copy.
func (s *exerciseLogService) mutate(
	ctx context.Context,
	traineeID, logID primitive.ObjectID,
	fn func(session *domain.WorkoutSession, exLog *domain.ExerciseLog, now time.Time) error,
) (*domain.ExerciseLog, error) {
	var exLog *domain.ExerciseLog
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.stores.ownedExerciseLog(ctx, traineeID, logID)
		if err != nil {
			return err
		}
		session, err := s.stores.lockSession(ctx, traineeID, found.SessionID)
		if err != nil {
			return err
		}
		exLog, err = s.stores.ExerciseLogs.GetByID(ctx, logID)
		if err != nil {
			return notFound(err, entityExerciseLog, logID)
		}

		now := s.clock.Now()
		if err := fn(session, exLog, now); err != nil {
			return err
		}
		if err := s.stores.ExerciseLogs.Update(ctx, exLog); err != nil {
			return err
		}
		return s.markSessionInProgress(ctx, session, now)
	})
	if err != nil {
		return nil, err
	}
	return exLog, nil
}

func (s *exerciseLogService) markSessionInProgress(ctx context.Context, session *domain.WorkoutSession, now time.Time) error {
	if !session.MarkInProgress(now) {
		return nil
	}
	return s.stores.Sessions.Update(ctx, session)
}
