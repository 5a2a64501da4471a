package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/service"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSessionCompleted(ctx context.Context, e service.SessionCompletedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishSessionAbandoned(ctx context.Context, e service.SessionAbandonedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishPlanAdvanced(ctx context.Context, e service.PlanAdvancedEvent) error {
	return m.Called(ctx, e).Error(0)
}

// acceptingPublisher returns nil for every event.
func acceptingPublisher() *mockPublisher {
	p := &mockPublisher{}
	p.On("PublishSessionCompleted", mock.Anything, mock.Anything).Return(nil).Maybe()
	p.On("PublishSessionAbandoned", mock.Anything, mock.Anything).Return(nil).Maybe()
	p.On("PublishPlanAdvanced", mock.Anything, mock.Anything).Return(nil).Maybe()
	return p
}

func (m *mockPublisher) completedEvents() []service.SessionCompletedEvent {
	var out []service.SessionCompletedEvent
	for _, c := range m.Calls {
		if e, ok := c.Arguments.Get(1).(service.SessionCompletedEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockPublisher) planEvents() []service.PlanAdvancedEvent {
	var out []service.PlanAdvancedEvent
	for _, c := range m.Calls {
		if e, ok := c.Arguments.Get(1).(service.PlanAdvancedEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	stores  service.Stores
	clock   *domain.FixedClock
	pub     *mockPublisher
	metrics *metrics.Manager

	trainer  *domain.User
	trainee  *domain.User
	exercise *domain.Exercise
	workout  *domain.Workout // bench press 3x10 reps, plank 2x60s

	trainerSvc service.TrainerService
	sessions   service.SessionService
	logs       service.ExerciseLogService
	sets       service.SetLogService
	progress   service.PlanProgressService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:   context.Background(),
		store: store,
		stores: service.Stores{
			Tx:           store,
			Users:        store.Users(),
			Workouts:     store.Workouts(),
			Plans:        store.TrainingPlans(),
			Sessions:     store.Sessions(),
			ExerciseLogs: store.ExerciseLogs(),
			SetLogs:      store.SetLogs(),
			Progress:     store.PlanProgress(),
		},
		clock:   &domain.FixedClock{T: t0},
		pub:     acceptingPublisher(),
		metrics: metrics.NewTestManager(),
	}

	f.trainer = f.addUser(t, domain.RoleTrainer, nil)
	f.trainee = f.addUser(t, domain.RoleTrainee, &f.trainer.ID)

	f.exercise = &domain.Exercise{TrainerID: f.trainer.ID, Name: "Bench press", CreatedAt: t0, UpdatedAt: t0}
	_, err := store.Exercises().Create(f.ctx, f.exercise)
	require.NoError(t, err)

	f.trainerSvc = service.NewTrainerService(store.Users(), store.Exercises(), store.Workouts(), store.TrainingPlans(), f.clock)
	f.sessions = service.NewSessionService(f.stores, f.pub, f.metrics, f.clock, nil, time.Minute)
	f.logs = service.NewExerciseLogService(f.stores, f.clock)
	f.sets = service.NewSetLogService(f.stores, f.metrics, f.clock)
	f.progress = service.NewPlanProgressService(f.stores, f.pub, f.clock)

	f.workout, err = f.trainerSvc.CreateWorkout(f.ctx, f.trainer.ID, service.WorkoutInput{
		Name: "Push day",
		Exercises: []domain.PrescribedExercise{
			{ExerciseID: f.exercise.ID, Sets: 3, Targets: domain.Targets{Reps: intp(10)}, RestSeconds: 90},
			{ExerciseID: f.exercise.ID, Sets: 2, Targets: domain.Targets{DurationSeconds: intp(60)}, RestSeconds: 30},
		},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) addUser(t *testing.T, role domain.Role, trainerID *primitive.ObjectID) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:      string(role),
		Email:     fmt.Sprintf("%s-%s@example.com", role, primitive.NewObjectID().Hex()),
		Role:      role,
		TrainerID: trainerID,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	_, err := f.store.Users().Create(f.ctx, u)
	require.NoError(t, err)
	return u
}

func (f *fixture) start(t *testing.T) *domain.WorkoutSession {
	t.Helper()
	session, err := f.sessions.StartSession(f.ctx, f.trainee.ID, service.StartSessionInput{WorkoutID: f.workout.ID})
	require.NoError(t, err)
	return session
}

// logExercise opens an exercise log for the i-th prescribed exercise.
func (f *fixture) logExercise(t *testing.T, sessionID primitive.ObjectID, i int) *domain.ExerciseLog {
	t.Helper()
	exLog, err := f.logs.CreateExerciseLog(f.ctx, f.trainee.ID, sessionID, f.workout.Exercises[i].ID, primitive.NilObjectID)
	require.NoError(t, err)
	return exLog
}

func (f *fixture) addSet(t *testing.T, logID primitive.ObjectID, number int, weight float64, reps int) *service.SetLogView {
	t.Helper()
	view, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, logID, service.CreateSetLogInput{
		SetNumber: number,
		Actuals:   domain.SetLogUpdate{Weight: floatp(weight), ActualReps: intp(reps)},
	})
	require.NoError(t, err)
	return view
}
