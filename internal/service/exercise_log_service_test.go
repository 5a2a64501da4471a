package service_test

import (
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateExerciseLog_MovesSessionInProgress(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)

	exLog := f.logExercise(t, session.ID, 0)
	assert.Equal(t, domain.ExerciseLogPending, exLog.Status)
	assert.Equal(t, f.exercise.ID, exLog.ExerciseID)
	assert.Equal(t, f.trainee.ID, exLog.TraineeID)

	detail, err := f.sessions.GetSession(f.ctx, f.trainee.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, detail.Session.Status)
	require.Len(t, detail.ExerciseLogs, 1)
}

func TestCreateExerciseLog_Rejections(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	f.logExercise(t, session.ID, 0)

	_, err := f.logs.CreateExerciseLog(f.ctx, f.trainee.ID, session.ID, f.workout.Exercises[0].ID, primitive.NilObjectID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.logs.CreateExerciseLog(f.ctx, f.trainee.ID, session.ID, primitive.NewObjectID(), primitive.NilObjectID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.logs.CreateExerciseLog(f.ctx, f.trainee.ID, session.ID, f.workout.Exercises[1].ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrValidation)

	other := f.addUser(t, domain.RoleTrainee, &f.trainer.ID)
	_, err = f.logs.CreateExerciseLog(f.ctx, other.ID, session.ID, f.workout.Exercises[1].ID, primitive.NilObjectID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExerciseLog_Lifecycle(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	exLog := f.logExercise(t, session.ID, 0)

	f.clock.Advance(time.Minute)
	started, err := f.logs.StartExerciseLog(f.ctx, f.trainee.ID, exLog.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExerciseLogInProgress, started.Status)
	assert.Equal(t, t0.Add(time.Minute), *started.StartedAt)

	_, err = f.logs.StartExerciseLog(f.ctx, f.trainee.ID, exLog.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	f.clock.Advance(time.Minute)
	done, err := f.logs.CompleteExerciseLog(f.ctx, f.trainee.ID, exLog.ID, strp("easy"))
	require.NoError(t, err)
	assert.Equal(t, domain.ExerciseLogCompleted, done.Status)
	assert.Equal(t, t0.Add(2*time.Minute), *done.CompletedAt)
	assert.Equal(t, "easy", done.Notes)

	_, err = f.logs.SkipExerciseLog(f.ctx, f.trainee.ID, exLog.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestSkipExerciseLog_StampsCompletion(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	exLog := f.logExercise(t, session.ID, 1)

	skipped, err := f.logs.SkipExerciseLog(f.ctx, f.trainee.ID, exLog.ID, strp("shoulder"))
	require.NoError(t, err)
	assert.Equal(t, domain.ExerciseLogSkipped, skipped.Status)
	assert.NotNil(t, skipped.CompletedAt)
	assert.Nil(t, skipped.StartedAt)
	assert.Equal(t, "shoulder", skipped.Notes)
}

func TestGetExerciseLog_Aggregates(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	exLog := f.logExercise(t, session.ID, 0)

	for n, rpe := range []int{7, 8, 8} {
		view := f.addSet(t, exLog.ID, n+1, 62.5, 10)
		_, err := f.sets.UpdateSetLog(f.ctx, f.trainee.ID, view.ID, domain.SetLogUpdate{RPE: intp(rpe)})
		require.NoError(t, err)
		_, err = f.sets.CompleteSetLog(f.ctx, f.trainee.ID, view.ID)
		require.NoError(t, err)
	}

	detail, err := f.logs.GetExerciseLog(f.ctx, f.trainee.ID, exLog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1875.0, detail.TotalVolume)
	require.NotNil(t, detail.AverageRPE)
	assert.Equal(t, 7.7, *detail.AverageRPE)
	assert.True(t, detail.AllSetsCompleted)
	require.Len(t, detail.Sets, 3)
	assert.Equal(t, 625.0, detail.Sets[0].Volume)
	assert.True(t, detail.Sets[0].TargetMet)

	other := f.addUser(t, domain.RoleTrainee, &f.trainer.ID)
	_, err = f.logs.GetExerciseLog(f.ctx, other.ID, exLog.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAbandonedSession_StillAcceptsLogs(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	exLog := f.logExercise(t, session.ID, 0)
	_, err := f.sessions.AbandonSession(f.ctx, f.trainee.ID, session.ID)
	require.NoError(t, err)

	_, err = f.logs.CompleteExerciseLog(f.ctx, f.trainee.ID, exLog.ID, nil)
	require.NoError(t, err)
	f.addSet(t, exLog.ID, 1, 20, 12)

	detail, err := f.sessions.GetSession(f.ctx, f.trainee.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAbandoned, detail.Session.Status)
	assert.Nil(t, detail.Session.TotalVolume)
}

// Every write below a completed session is rejected as locked and leaves the
// stored tree untouched.
func TestCompletedSession_LocksEveryChildWrite(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)
	plank := f.logExercise(t, session.ID, 1)
	done := f.addSet(t, bench.ID, 1, 100, 10)
	open, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, service.CreateSetLogInput{SetNumber: 2})
	require.NoError(t, err)

	_, err = f.sessions.CompleteSession(f.ctx, f.trainee.ID, session.ID, service.CompleteSessionInput{})
	require.NoError(t, err)
	before, err := f.sessions.GetSession(f.ctx, f.trainee.ID, session.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	writes := map[string]func() error{
		"create exercise log": func() error {
			_, err := f.logs.CreateExerciseLog(f.ctx, f.trainee.ID, session.ID, f.workout.Exercises[1].ID, primitive.NilObjectID)
			return err
		},
		"start exercise log": func() error {
			_, err := f.logs.StartExerciseLog(f.ctx, f.trainee.ID, plank.ID)
			return err
		},
		"complete exercise log": func() error {
			_, err := f.logs.CompleteExerciseLog(f.ctx, f.trainee.ID, plank.ID, strp("late"))
			return err
		},
		"skip exercise log": func() error {
			_, err := f.logs.SkipExerciseLog(f.ctx, f.trainee.ID, bench.ID, nil)
			return err
		},
		"create set": func() error {
			_, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, service.CreateSetLogInput{SetNumber: 3})
			return err
		},
		"update set": func() error {
			_, err := f.sets.UpdateSetLog(f.ctx, f.trainee.ID, done.ID, domain.SetLogUpdate{Weight: floatp(500)})
			return err
		},
		"complete set": func() error {
			_, err := f.sets.UpdateSetLog(f.ctx, f.trainee.ID, open.ID, domain.SetLogUpdate{ActualReps: intp(10)})
			if err != nil {
				return err
			}
			_, err = f.sets.CompleteSetLog(f.ctx, f.trainee.ID, open.ID)
			return err
		},
		"delete set": func() error {
			return f.sets.DeleteSetLog(f.ctx, f.trainee.ID, done.ID)
		},
	}
	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			err := write()
			require.ErrorIs(t, err, domain.ErrImmutable)

			after, err := f.sessions.GetSession(f.ctx, f.trainee.ID, session.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}
