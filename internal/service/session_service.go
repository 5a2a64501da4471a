package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StartSessionInput selects the workout to perform and, optionally, the plan
// day it is performed for.
type StartSessionInput struct {
	WorkoutID primitive.ObjectID
	PlanID    *primitive.ObjectID
	Week      int
	Day       int
}

type CompleteSessionInput struct {
	Notes  *string
	Rating *int
}

// SessionService runs the workout session lifecycle for trainees.
type SessionService interface {
	StartSession(ctx context.Context, traineeID primitive.ObjectID, in StartSessionInput) (*domain.WorkoutSession, error)
	GetSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*SessionDetail, error)
	ListSessions(ctx context.Context, traineeID primitive.ObjectID, status *domain.SessionStatus) ([]domain.WorkoutSession, error)
	CompleteSession(ctx context.Context, traineeID, sessionID primitive.ObjectID, in CompleteSessionInput) (*SessionDetail, error)
	AbandonSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error)
	GetArchiveURL(ctx context.Context, traineeID, sessionID primitive.ObjectID) (string, error)
}

type sessionService struct {
	stores        Stores
	publisher     EventPublisher
	metrics       *metrics.Manager
	clock         domain.Clock
	archive       storage.FileStorage // nil when archiving is disabled
	archiveExpiry time.Duration
}

// NewSessionService creates a new instance of sessionService. archive may be
// nil, in which case archive URLs are never available.
func NewSessionService(
	stores Stores,
	publisher EventPublisher,
	m *metrics.Manager,
	clock domain.Clock,
	archive storage.FileStorage,
	archiveExpiry time.Duration,
) SessionService {
	return &sessionService{
		stores:        stores,
		publisher:     publisher,
		metrics:       m,
		clock:         clock,
		archive:       archive,
		archiveExpiry: archiveExpiry,
	}
}

// StartSession creates a session pinned to the workout's current version.
func (s *sessionService) StartSession(ctx context.Context, traineeID primitive.ObjectID, in StartSessionInput) (*domain.WorkoutSession, error) {
	// 1. Validate Input
	if in.WorkoutID == primitive.NilObjectID {
		return nil, &domain.ValidationError{Field: "workoutId", Reason: "is required"}
	}

	// 2. Resolve the trainee profile
	trainee, err := s.stores.Users.GetByID(ctx, traineeID)
	if err != nil {
		return nil, notFound(err, entityUser, traineeID)
	}
	if !trainee.IsTrainee() {
		return nil, &domain.ValidationError{Field: "trainee", Reason: "user has no trainee profile"}
	}

	// 3. Resolve the workout; an inaccessible workout does not exist for this trainee
	workout, err := s.stores.Workouts.GetByID(ctx, in.WorkoutID)
	if err != nil {
		return nil, notFound(err, entityWorkout, in.WorkoutID)
	}
	if !workout.AccessibleBy(traineeID, trainee.TrainerID) {
		return nil, &domain.NotFoundError{Entity: entityWorkout, ID: in.WorkoutID.Hex()}
	}

	// 4. Resolve the plan position, if any
	var position *domain.PlanPosition
	if in.PlanID != nil {
		position, err = s.resolvePosition(ctx, traineeID, workout.ID, *in.PlanID, in.Week, in.Day)
		if err != nil {
			return nil, err
		}
	}

	// 5. Persist
	session := domain.NewWorkoutSession(traineeID, workout, position, s.clock.Now())
	if _, err := s.stores.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.CounterSessionsStarted.Inc()
	return session, nil
}

func (s *sessionService) resolvePosition(ctx context.Context, traineeID, workoutID, planID primitive.ObjectID, week, day int) (*domain.PlanPosition, error) {
	plan, err := s.stores.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, notFound(err, entityPlan, planID)
	}
	if !plan.AccessibleBy(traineeID) {
		return nil, &domain.NotFoundError{Entity: entityPlan, ID: planID.Hex()}
	}
	if err := plan.CheckPosition(week, day); err != nil {
		return nil, err
	}
	scheduled, _ := plan.WorkoutsFor(week, day)
	if !slices.Contains(scheduled, workoutID) {
		return nil, &domain.ValidationError{
			Field:  "workoutId",
			Reason: fmt.Sprintf("is not scheduled on week %d day %d of the plan", week, day),
		}
	}
	return &domain.PlanPosition{PlanID: planID, Week: week, Day: day}, nil
}

func (s *sessionService) GetSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*SessionDetail, error) {
	session, err := s.stores.ownedSession(ctx, traineeID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.stores.loadSessionDetail(ctx, session)
}

func (s *sessionService) ListSessions(ctx context.Context, traineeID primitive.ObjectID, status *domain.SessionStatus) ([]domain.WorkoutSession, error) {
	return s.stores.Sessions.ListByTrainee(ctx, traineeID, status)
}

// CompleteSession finalizes the session. Totals are computed from the sets
// read under the session lock and persisted in the same transaction.
func (s *sessionService) CompleteSession(ctx context.Context, traineeID, sessionID primitive.ObjectID, in CompleteSessionInput) (*SessionDetail, error) {
	var detail *SessionDetail
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.stores.lockSession(ctx, traineeID, sessionID)
		if err != nil {
			return err
		}
		sets, err := s.stores.SetLogs.ListBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if err := session.Complete(sets, in.Notes, in.Rating, s.clock.Now()); err != nil {
			return err
		}
		if err := s.stores.Sessions.Update(ctx, session); err != nil {
			return err
		}
		detail, err = s.stores.loadSessionDetail(ctx, session)
		return err
	})
	if err != nil {
		return nil, err
	}

	session := detail.Session
	err = s.publisher.PublishSessionCompleted(ctx, SessionCompletedEvent{
		SessionID:            session.ID,
		TraineeID:            session.TraineeID,
		TotalDurationSeconds: *session.TotalDurationSeconds,
		TotalVolume:          *session.TotalVolume,
		CompletionPercentage: detail.Progress.CompletionPercentage,
		CompletedAt:          *session.CompletedAt,
		Detail:               detail,
	})
	if err != nil {
		log.WithField("session_id", session.ID.Hex()).Warnf("publish session completed: %s", err)
	}
	return detail, nil
}

func (s *sessionService) AbandonSession(ctx context.Context, traineeID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session *domain.WorkoutSession
	err := s.stores.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		session, err = s.stores.lockSession(ctx, traineeID, sessionID)
		if err != nil {
			return err
		}
		if err := session.Abandon(s.clock.Now()); err != nil {
			return err
		}
		return s.stores.Sessions.Update(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	err = s.publisher.PublishSessionAbandoned(ctx, SessionAbandonedEvent{
		SessionID:   session.ID,
		TraineeID:   session.TraineeID,
		AbandonedAt: *session.CompletedAt,
	})
	if err != nil {
		log.WithField("session_id", session.ID.Hex()).Warnf("publish session abandoned: %s", err)
	}
	return session, nil
}

// GetArchiveURL presigns a download link for a completed session's archive.
func (s *sessionService) GetArchiveURL(ctx context.Context, traineeID, sessionID primitive.ObjectID) (string, error) {
	session, err := s.stores.ownedSession(ctx, traineeID, sessionID)
	if err != nil {
		return "", err
	}
	if s.archive == nil || session.Status != domain.SessionCompleted || session.ArchiveKey == "" {
		return "", &domain.NotFoundError{Entity: "session archive", ID: sessionID.Hex()}
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, session.ArchiveKey, s.archiveExpiry)
}
