package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func seedSession(t *testing.T, store *memory.Store) *domain.WorkoutSession {
	t.Helper()
	w := &domain.Workout{
		ID:      primitive.NewObjectID(),
		Name:    "Legs",
		Version: 1,
		Exercises: []domain.PrescribedExercise{
			{ID: primitive.NewObjectID(), ExerciseID: primitive.NewObjectID(), Sets: 3, Targets: domain.Targets{Reps: intp(5)}},
		},
	}
	s := domain.NewWorkoutSession(primitive.NewObjectID(), w, nil, t0)
	_, err := store.Sessions().Create(context.Background(), s)
	require.NoError(t, err)
	return s
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := store.Sessions().GetForUpdate(ctx, sess.ID)
		require.NoError(t, err)
		require.NoError(t, locked.Complete(nil, nil, nil, t0.Add(time.Hour)))
		require.NoError(t, store.Sessions().Update(ctx, locked))

		log := &domain.ExerciseLog{SessionID: sess.ID, PrescribedExerciseID: sess.Workout.Exercises[0].ID}
		_, err = store.ExerciseLogs().Create(ctx, log)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStarted, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, int64(0), got.LockVersion)

	logs, err := store.ExerciseLogs().ListBySession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestWithinTransaction_CommitsAndNests(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := store.Sessions().GetForUpdate(ctx, sess.ID); err != nil {
			return err
		}
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := store.Sessions().GetForUpdate(ctx, sess.ID)
			return err
		})
	})
	require.NoError(t, err)

	got, err := store.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LockVersion)
}

func TestWithinTransaction_Serializes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithinTransaction(ctx, func(ctx context.Context) error {
				_, err := store.Sessions().GetForUpdate(ctx, sess.ID)
				return err
			})
		}()
	}
	wg.Wait()

	got, err := store.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.LockVersion)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)
	prescribed := sess.Workout.Exercises[0].ID

	log := &domain.ExerciseLog{SessionID: sess.ID, PrescribedExerciseID: prescribed}
	_, err := store.ExerciseLogs().Create(ctx, log)
	require.NoError(t, err)
	_, err = store.ExerciseLogs().Create(ctx, &domain.ExerciseLog{SessionID: sess.ID, PrescribedExerciseID: prescribed})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.SetLogs().Create(ctx, &domain.SetLog{ExerciseLogID: log.ID, SessionID: sess.ID, SetNumber: 1})
	require.NoError(t, err)
	_, err = store.SetLogs().Create(ctx, &domain.SetLog{ExerciseLogID: log.ID, SessionID: sess.ID, SetNumber: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	_, err = store.SetLogs().Create(ctx, &domain.SetLog{ExerciseLogID: primitive.NewObjectID(), SetNumber: 1})
	assert.NoError(t, err)

	trainee, plan := primitive.NewObjectID(), primitive.NewObjectID()
	_, err = store.PlanProgress().Create(ctx, &domain.PlanProgress{TraineeID: trainee, TrainingPlanID: plan})
	require.NoError(t, err)
	_, err = store.PlanProgress().Create(ctx, &domain.PlanProgress{TraineeID: trainee, TrainingPlanID: plan})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.Users().Create(ctx, &domain.User{Email: "a@b.c"})
	require.NoError(t, err)
	_, err = store.Users().Create(ctx, &domain.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestSetLogs_OrderingAndDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	logID := primitive.NewObjectID()
	sessionID := primitive.NewObjectID()

	var ids []primitive.ObjectID
	for _, n := range []int{3, 1, 2} {
		id, err := store.SetLogs().Create(ctx, &domain.SetLog{ExerciseLogID: logID, SessionID: sessionID, SetNumber: n})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	sets, err := store.SetLogs().ListByExerciseLog(ctx, logID)
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{sets[0].SetNumber, sets[1].SetNumber, sets[2].SetNumber})

	require.NoError(t, store.SetLogs().Delete(ctx, ids[0]))
	assert.ErrorIs(t, store.SetLogs().Delete(ctx, ids[0]), repository.ErrNotFound)

	sets, err = store.SetLogs().ListBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, sets, 2)
}

func TestWorkouts_UpdateRequiresNextVersion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	w := &domain.Workout{TrainerID: primitive.NewObjectID(), Name: "Push", Version: 1}
	_, err := store.Workouts().Create(ctx, w)
	require.NoError(t, err)

	stale := *w
	w.Version = 2
	w.Name = "Push v2"
	require.NoError(t, store.Workouts().Update(ctx, w))

	stale.Version = 2
	assert.ErrorIs(t, store.Workouts().Update(ctx, &stale), repository.ErrNotFound)

	got, err := store.Workouts().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push v2", got.Name)
}

func TestSessions_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)

	got, err := store.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	got.Workout.Exercises[0].Sets = 99
	got.Status = domain.SessionAbandoned

	again, err := store.Sessions().GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Workout.Exercises[0].Sets)
	assert.Equal(t, domain.SessionStarted, again.Status)

	status := domain.SessionStarted
	list, err := store.Sessions().ListByTrainee(ctx, sess.TraineeID, &status)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	status = domain.SessionCompleted
	list, err = store.Sessions().ListByTrainee(ctx, sess.TraineeID, &status)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWithinTransaction_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	outside := &domain.WorkoutSession{TraineeID: primitive.NewObjectID(), Status: domain.SessionStarted, StartedAt: t0}

	inTx := make(chan struct{})
	writerReady := make(chan struct{})
	writeDone := make(chan error, 1)
	boom := errors.New("boom")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := store.ExerciseLogs().Create(ctx, &domain.ExerciseLog{SessionID: primitive.NewObjectID(), PrescribedExerciseID: primitive.NewObjectID()})
			close(inTx)
			if err != nil {
				return err
			}
			<-writerReady
			return boom
		})
		assert.ErrorIs(t, err, boom)
	}()

	<-inTx
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(writerReady)
		_, err := store.Sessions().Create(ctx, outside)
		writeDone <- err
	}()
	wg.Wait()
	require.NoError(t, <-writeDone)

	got, err := store.Sessions().GetByID(ctx, outside.ID)
	require.NoError(t, err)
	assert.Equal(t, outside.TraineeID, got.TraineeID)
}

func TestWithinTransaction_OutsideReadsSeeCommittedStateOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sess := seedSession(t, store)

	written := make(chan struct{})
	readDone := make(chan domain.SessionStatus, 1)
	boom := errors.New("boom")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := store.WithinTransaction(ctx, func(ctx context.Context) error {
			err := func() error {
				locked, err := store.Sessions().GetForUpdate(ctx, sess.ID)
				if err != nil {
					return err
				}
				if err := locked.Abandon(t0.Add(time.Minute)); err != nil {
					return err
				}
				return store.Sessions().Update(ctx, locked)
			}()
			close(written)
			if err != nil {
				return err
			}
			// leave room for the reader to race the rollback
			time.Sleep(10 * time.Millisecond)
			return boom
		})
		assert.ErrorIs(t, err, boom)
	}()

	<-written
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, err := store.Sessions().GetByID(ctx, sess.ID)
		assert.NoError(t, err)
		if got != nil {
			readDone <- got.Status
		}
	}()
	wg.Wait()

	require.Len(t, readDone, 1)
	assert.Equal(t, domain.SessionStarted, <-readDone)
}
