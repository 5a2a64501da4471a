package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSetLogInput describes a new set. When Targets is empty the set
// inherits the targets prescribed for its exercise.
type CreateSetLogInput struct {
	SetNumber int
	Targets   domain.Targets
	Actuals   domain.SetLogUpdate
}

// SetLogService records individual sets.
type SetLogService interface {
	CreateSetLog(ctx context.Context, traineeID, logID primitive.ObjectID, in CreateSetLogInput) (*SetLogView, error)
	GetSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) (*SetLogView, error)
	UpdateSetLog(ctx context.Context, traineeID, setID primitive.ObjectID, update domain.SetLogUpdate) (*SetLogView, error)
	CompleteSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) (*SetLogView, error)
	DeleteSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) error
}

type setLogService struct {
	stores  Stores
	metrics *metrics.Manager
	clock   domain.Clock
}

func NewSetLogService(stores Stores, m *metrics.Manager, clock domain.Clock) SetLogService {
	return &setLogService{stores: stores, metrics: m, clock: clock}
}

func (s *setLogService) CreateSetLog(ctx context.Context, traineeID, logID primitive.ObjectID, in CreateSetLogInput) (*SetLogView, error) {
	var set *domain.SetLog
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. Lock the owning session
		found, err := s.stores.ownedExerciseLog(ctx, traineeID, logID)
		if err != nil {
			return err
		}
		session, err := s.stores.lockSession(ctx, traineeID, found.SessionID)
		if err != nil {
			return err
		}
		if err := session.EnsureLogsMutable(); err != nil {
			return err
		}

		// 2. Resolve targets against the pinned prescription
		prescribed, _ := session.Workout.Find(found.PrescribedExerciseID)
		targets, err := resolveTargets(in.Targets, prescribed.Targets)
		if err != nil {
			return err
		}

		// 3. Build and store
		now := s.clock.Now()
		set, err = domain.NewSetLog(session, found, in.SetNumber, targets, now)
		if err != nil {
			return err
		}
		if err := set.Apply(session, in.Actuals, now); err != nil {
			return err
		}
		if _, err := s.stores.SetLogs.Create(ctx, set); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &domain.ValidationError{
					Field:  "setNumber",
					Reason: fmt.Sprintf("set %d already exists for this exercise log", in.SetNumber),
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.CounterSetsLogged.Inc()
	view := newSetLogView(*set)
	return &view, nil
}

// resolveTargets falls back to the prescription when no target is given and
// rejects targets measuring a different family than the prescription.
func resolveTargets(given, prescribed domain.Targets) (domain.Targets, error) {
	if !given.HasAny() {
		return prescribed, nil
	}
	if prescribed.HasAny() && given.Family() != prescribed.Family() {
		return domain.Targets{}, &domain.ValidationError{
			Field:  "targets",
			Reason: fmt.Sprintf("exercise is prescribed by %s, got %s", prescribed.Family(), given.Family()),
		}
	}
	return given, nil
}

func (s *setLogService) GetSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) (*SetLogView, error) {
	set, err := s.stores.ownedSetLog(ctx, traineeID, setID)
	if err != nil {
		return nil, err
	}
	view := newSetLogView(*set)
	return &view, nil
}

func (s *setLogService) UpdateSetLog(ctx context.Context, traineeID, setID primitive.ObjectID, update domain.SetLogUpdate) (*SetLogView, error) {
	return s.mutate(ctx, traineeID, setID, func(session *domain.WorkoutSession, set *domain.SetLog, now time.Time) error {
		return set.Apply(session, update, now)
	})
}

func (s *setLogService) CompleteSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) (*SetLogView, error) {
	return s.mutate(ctx, traineeID, setID, func(session *domain.WorkoutSession, set *domain.SetLog, now time.Time) error {
		return set.Complete(session, now)
	})
}

func (s *setLogService) DeleteSetLog(ctx context.Context, traineeID, setID primitive.ObjectID) error {
	return s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, set, err := s.lockSet(ctx, traineeID, setID)
		if err != nil {
			return err
		}
		if err := set.CheckDelete(session); err != nil {
			return err
		}
		return notFound(s.stores.SetLogs.Delete(ctx, set.ID), entitySetLog, setID)
	})
}

func (s *setLogService) mutate(
	ctx context.Context,
	traineeID, setID primitive.ObjectID,
	fn func(session *domain.WorkoutSession, set *domain.SetLog, now time.Time) error,
) (*SetLogView, error) {
	var set *domain.SetLog
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var session *domain.WorkoutSession
		var err error
		session, set, err = s.lockSet(ctx, traineeID, setID)
		if err != nil {
			return err
		}
		if err := fn(session, set, s.clock.Now()); err != nil {
			return err
		}
		return s.stores.SetLogs.Update(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	view := newSetLogView(*set)
	return &view, nil
}

// lockSet takes the lock of the set's session and re-reads the set under it.
func (s *setLogService) lockSet(ctx context.Context, traineeID, setID primitive.ObjectID) (*domain.WorkoutSession, *domain.SetLog, error) {
	found, err := s.stores.ownedSetLog(ctx, traineeID, setID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.stores.lockSession(ctx, traineeID, found.SessionID)
	if err != nil {
		return nil, nil, err
	}
	set, err := s.stores.SetLogs.GetByID(ctx, setID)
	if err != nil {
		return nil, nil, notFound(err, entitySetLog, setID)
	}
	return session, set, nil
}
