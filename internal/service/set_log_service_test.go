package service_test

import (
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSetLog_InheritsPrescribedTargets(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)

	view := f.addSet(t, bench.ID, 1, 80.456, 9)
	require.NotNil(t, view.Targets.Reps)
	assert.Equal(t, 10, *view.Targets.Reps)
	assert.Equal(t, 80.46, *view.Weight)
	assert.False(t, view.TargetMet)
	require.NotNil(t, view.PerformancePercentage)
	assert.Equal(t, 90.0, *view.PerformancePercentage)
	assert.Equal(t, 724.14, view.Volume)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterSetsLogged))

	explicit, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, service.CreateSetLogInput{
		SetNumber: 2,
		Targets:   domain.Targets{Reps: intp(8)},
		Actuals:   domain.SetLogUpdate{ActualReps: intp(8)},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, *explicit.Targets.Reps)
	assert.True(t, explicit.TargetMet)
}

func TestCreateSetLog_Validation(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)
	f.addSet(t, bench.ID, 1, 100, 10)

	cases := map[string]service.CreateSetLogInput{
		"duplicate set number": {SetNumber: 1},
		"zero set number":      {SetNumber: 0},
		"other family":         {SetNumber: 2, Targets: domain.Targets{DurationSeconds: intp(30)}},
		"non-positive target":  {SetNumber: 2, Targets: domain.Targets{Reps: intp(0)}},
		"rpe out of range":     {SetNumber: 2, Actuals: domain.SetLogUpdate{RPE: intp(11)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	var verr *domain.ValidationError
	_, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, service.CreateSetLogInput{SetNumber: 1})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "setNumber", verr.Field)

	sets, err := f.store.SetLogs().ListByExerciseLog(f.ctx, bench.ID)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestUpdateSetLog_Partial(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)
	set := f.addSet(t, bench.ID, 1, 100, 10)

	f.clock.Advance(time.Minute)
	updated, err := f.sets.UpdateSetLog(f.ctx, f.trainee.ID, set.ID, domain.SetLogUpdate{
		RPE:       intp(9),
		IsFailure: func() *bool { b := true; return &b }(),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, *updated.Weight)
	assert.Equal(t, 10, *updated.ActualReps)
	assert.Equal(t, 9, *updated.RPE)
	assert.True(t, updated.IsFailure)
	assert.Equal(t, t0.Add(time.Minute), updated.UpdatedAt)

	_, err = f.sets.UpdateSetLog(f.ctx, f.trainee.ID, set.ID, domain.SetLogUpdate{RPE: intp(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.sets.GetSetLog(f.ctx, f.trainee.ID, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, *got.RPE)
}

func TestCompleteSetLog(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)

	empty, err := f.sets.CreateSetLog(f.ctx, f.trainee.ID, bench.ID, service.CreateSetLogInput{SetNumber: 1})
	require.NoError(t, err)
	_, err = f.sets.CompleteSetLog(f.ctx, f.trainee.ID, empty.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	set := f.addSet(t, bench.ID, 2, 100, 10)
	f.clock.Advance(30 * time.Second)
	done, err := f.sets.CompleteSetLog(f.ctx, f.trainee.ID, set.ID)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(30*time.Second), *done.CompletedAt)

	_, err = f.sets.CompleteSetLog(f.ctx, f.trainee.ID, set.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestDeleteSetLog(t *testing.T) {
	f := newFixture(t)
	session := f.start(t)
	bench := f.logExercise(t, session.ID, 0)
	set := f.addSet(t, bench.ID, 1, 100, 10)

	other := f.addUser(t, domain.RoleTrainee, &f.trainer.ID)
	assert.ErrorIs(t, f.sets.DeleteSetLog(f.ctx, other.ID, set.ID), domain.ErrNotFound)

	require.NoError(t, f.sets.DeleteSetLog(f.ctx, f.trainee.ID, set.ID))
	_, err := f.sets.GetSetLog(f.ctx, f.trainee.ID, set.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.sets.DeleteSetLog(f.ctx, f.trainee.ID, primitive.NewObjectID()), domain.ErrNotFound)

	// The number is free again
	f.addSet(t, bench.ID, 1, 90, 10)
}
