// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver and the service tests.
package memory

import (
	"context"
	"sync"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type txKey struct{}

// Store holds every collection in maps keyed by ID. Values are stored as
// copies, so callers never share memory with the store.
//
// Every access outside a transaction also takes txMu, so a rollback only
// ever discards the failed transaction's own writes and readers never
// observe uncommitted state.
type Store struct {
	txMu sync.Mutex   // serializes transactions and non-transactional access
	mu   sync.RWMutex // guards the maps

	users        map[primitive.ObjectID]domain.User
	exercises    map[primitive.ObjectID]domain.Exercise
	workouts     map[primitive.ObjectID]domain.Workout
	plans        map[primitive.ObjectID]domain.TrainingPlan
	sessions     map[primitive.ObjectID]domain.WorkoutSession
	exerciseLogs map[primitive.ObjectID]domain.ExerciseLog
	setLogs      map[primitive.ObjectID]domain.SetLog
	progress     map[primitive.ObjectID]domain.PlanProgress
}

func NewStore() *Store {
	return &Store{
		users:        map[primitive.ObjectID]domain.User{},
		exercises:    map[primitive.ObjectID]domain.Exercise{},
		workouts:     map[primitive.ObjectID]domain.Workout{},
		plans:        map[primitive.ObjectID]domain.TrainingPlan{},
		sessions:     map[primitive.ObjectID]domain.WorkoutSession{},
		exerciseLogs: map[primitive.ObjectID]domain.ExerciseLog{},
		setLogs:      map[primitive.ObjectID]domain.SetLog{},
		progress:     map[primitive.ObjectID]domain.PlanProgress{},
	}
}

var _ repository.Transactor = (*Store)(nil)

// WithinTransaction runs fn while holding the store's transaction lock and
// rolls every map back to its prior state if fn fails. Nested calls join
// the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := s.snapshot()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

func inTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// lock takes the write lock for a repository call and returns its release.
func (s *Store) lock(ctx context.Context) func() {
	if inTransaction(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) rlock(ctx context.Context) func() {
	if inTransaction(ctx) {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.txMu.Lock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.Unlock()
	}
}

type snapshot struct {
	users        map[primitive.ObjectID]domain.User
	exercises    map[primitive.ObjectID]domain.Exercise
	workouts     map[primitive.ObjectID]domain.Workout
	plans        map[primitive.ObjectID]domain.TrainingPlan
	sessions     map[primitive.ObjectID]domain.WorkoutSession
	exerciseLogs map[primitive.ObjectID]domain.ExerciseLog
	setLogs      map[primitive.ObjectID]domain.SetLog
	progress     map[primitive.ObjectID]domain.PlanProgress
}

// Stored values are replaced, never mutated in place, so copying the maps
// is enough.
func (s *Store) snapshot() snapshot {
	return snapshot{
		users:        copyMap(s.users),
		exercises:    copyMap(s.exercises),
		workouts:     copyMap(s.workouts),
		plans:        copyMap(s.plans),
		sessions:     copyMap(s.sessions),
		exerciseLogs: copyMap(s.exerciseLogs),
		setLogs:      copyMap(s.setLogs),
		progress:     copyMap(s.progress),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.exercises = snap.exercises
	s.workouts = snap.workouts
	s.plans = snap.plans
	s.sessions = snap.sessions
	s.exerciseLogs = snap.exerciseLogs
	s.setLogs = snap.setLogs
	s.progress = snap.progress
}

func copyMap[V any](m map[primitive.ObjectID]V) map[primitive.ObjectID]V {
	out := make(map[primitive.ObjectID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Exercises() repository.ExerciseRepository         { return &exerciseRepo{s} }
func (s *Store) Workouts() repository.WorkoutRepository           { return &workoutRepo{s} }
func (s *Store) TrainingPlans() repository.TrainingPlanRepository { return &trainingPlanRepo{s} }
func (s *Store) Sessions() repository.SessionRepository           { return &sessionRepo{s} }
func (s *Store) ExerciseLogs() repository.ExerciseLogRepository   { return &exerciseLogRepo{s} }
func (s *Store) SetLogs() repository.SetLogRepository             { return &setLogRepo{s} }
func (s *Store) PlanProgress() repository.PlanProgressRepository  { return &planProgressRepo{s} }
