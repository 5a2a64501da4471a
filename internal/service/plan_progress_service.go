package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanProgressView is a tracker with its position read against the plan.
type PlanProgressView struct {
	domain.PlanProgress
	IsOnLastWeek      bool                 `json:"isOnLastWeek"`
	IsOnLastDayOfWeek bool                 `json:"isOnLastDayOfWeek"`
	TodayWorkoutIDs   []primitive.ObjectID `json:"todayWorkoutIds"`
}

func newPlanProgressView(progress *domain.PlanProgress, plan *domain.TrainingPlan) *PlanProgressView {
	today, _ := plan.WorkoutsFor(progress.CurrentWeek, progress.CurrentDay)
	if today == nil {
		today = []primitive.ObjectID{}
	}
	return &PlanProgressView{
		PlanProgress:      *progress,
		IsOnLastWeek:      progress.IsOnLastWeek(plan),
		IsOnLastDayOfWeek: progress.IsOnLastDayOfWeek(plan),
		TodayWorkoutIDs:   today,
	}
}

// PlanProgressService moves trainees through multi-week training plans.
type PlanProgressService interface {
	StartPlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*PlanProgressView, error)
	GetProgress(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
	ListProgress(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PlanProgress, error)
	AdvanceDay(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
	Pause(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
	Resume(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
	Abandon(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
	Restart(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error)
}

type planProgressService struct {
	stores    Stores
	publisher EventPublisher
	clock     domain.Clock
}

func NewPlanProgressService(stores Stores, publisher EventPublisher, clock domain.Clock) PlanProgressService {
	return &planProgressService{stores: stores, publisher: publisher, clock: clock}
}

// StartPlan creates the trainee's tracker for a plan. A finished tracker for
// the same plan is reset in place; an unfinished one is a conflict.
func (s *planProgressService) StartPlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*PlanProgressView, error) {
	var progress *domain.PlanProgress
	var plan *domain.TrainingPlan
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.accessiblePlan(ctx, traineeID, planID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		progress, err = s.stores.Progress.GetByTraineeAndPlan(ctx, traineeID, planID)
		switch {
		case err == nil:
			if !progress.Status.IsTerminal() {
				return &domain.ConflictError{Entity: entityTracker, Reason: "the plan is already in progress"}
			}
			progress.Restart(now)
			return s.stores.Progress.Update(ctx, progress)
		case errors.Is(err, repository.ErrNotFound):
			progress = domain.NewPlanProgress(traineeID, plan, now)
			if _, err := s.stores.Progress.Create(ctx, progress); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return &domain.ConflictError{Entity: entityTracker, Reason: "the plan is already in progress"}
				}
				return err
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return newPlanProgressView(progress, plan), nil
}

func (s *planProgressService) accessiblePlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.stores.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, entityPlan, planID)
	}
	if !plan.AccessibleBy(traineeID) {
		return nil, &domain.NotFoundError{Entity: entityPlan, ID: planID.Hex()}
	}
	return plan, nil
}

func (s *planProgressService) GetProgress(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	progress, err := s.stores.ownedTracker(ctx, traineeID, trackerID)
	if err != nil {
		return nil, err
	}
	plan, err := s.stores.Plans.GetByID(ctx, progress.TrainingPlanID)
	if err != nil {
		return nil, notFound(err, entityPlan, progress.TrainingPlanID)
	}
	return newPlanProgressView(progress, plan), nil
}

func (s *planProgressService) ListProgress(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PlanProgress, error) {
	return s.stores.Progress.ListByTrainee(ctx, traineeID)
}

// AdvanceDay moves the tracker to the next plan day and reports the new
// position to the publisher once committed.
func (s *planProgressService) AdvanceDay(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	view, err := s.mutate(ctx, traineeID, trackerID, func(progress *domain.PlanProgress, plan *domain.TrainingPlan, now time.Time) error {
		return progress.AdvanceDay(plan, now)
	})
	if err != nil {
		return nil, err
	}

	err = s.publisher.PublishPlanAdvanced(ctx, PlanAdvancedEvent{
		TrackerID:   view.ID,
		TraineeID:   view.TraineeID,
		PlanID:      view.TrainingPlanID,
		CurrentWeek: view.CurrentWeek,
		CurrentDay:  view.CurrentDay,
		Status:      view.Status,
		CompletedAt: view.CompletedAt,
	})
	if err != nil {
		log.WithField("tracker_id", view.ID.Hex()).Warnf("publish plan advanced: %s", err)
	}
	return view, nil
}

func (s *planProgressService) Pause(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	return s.mutate(ctx, traineeID, trackerID, func(progress *domain.PlanProgress, _ *domain.TrainingPlan, now time.Time) error {
		return progress.Pause(now)
	})
}

func (s *planProgressService) Resume(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	return s.mutate(ctx, traineeID, trackerID, func(progress *domain.PlanProgress, _ *domain.TrainingPlan, now time.Time) error {
		return progress.Resume(now)
	})
}

func (s *planProgressService) Abandon(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	return s.mutate(ctx, traineeID, trackerID, func(progress *domain.PlanProgress, _ *domain.TrainingPlan, now time.Time) error {
		return progress.Abandon(now)
	})
}

func (s *planProgressService) Restart(ctx context.Context, traineeID, trackerID primitive.ObjectID) (*PlanProgressView, error) {
	return s.mutate(ctx, traineeID, trackerID, func(progress *domain.PlanProgress, _ *domain.TrainingPlan, now time.Time) error {
		progress.Restart(now)
		return nil
	})
}

func (s *planProgressService) mutate(
	ctx context.Context,
	traineeID, trackerID primitive.ObjectID,
	fn func(progress *domain.PlanProgress, plan *domain.TrainingPlan, now time.Time) error,
) (*PlanProgressView, error) {
	var view *PlanProgressView
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		progress, err := s.stores.ownedTracker(ctx, traineeID, trackerID)
		if err != nil {
			return err
		}
		plan, err := s.stores.Plans.GetByID(ctx, progress.TrainingPlanID)
		if err != nil {
			return notFound(err, entityPlan, progress.TrainingPlanID)
		}
		if err := fn(progress, plan, s.clock.Now()); err != nil {
			return err
		}
		if err := s.stores.Progress.Update(ctx, progress); err != nil {
			return err
		}
		view = newPlanProgressView(progress, plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
