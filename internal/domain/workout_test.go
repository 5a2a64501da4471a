package domain_test

import (
	"testing"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTargets(t *testing.T) {
	assert.Equal(t, domain.FamilyNone, domain.Targets{}.Family())
	assert.Equal(t, domain.FamilyReps, domain.Targets{Reps: intp(5), DurationSeconds: intp(30)}.Family())
	assert.Equal(t, domain.FamilyDistance, domain.Targets{DistanceMeters: floatp(5000)}.Family())

	assert.ErrorIs(t, domain.Targets{}.Validate(), domain.ErrValidation)
	assert.ErrorIs(t, domain.Targets{Reps: intp(-2)}.Validate(), domain.ErrValidation)
	assert.NoError(t, domain.Targets{DurationSeconds: intp(60)}.Validate())
}

func TestWorkout_RecomputeTotals(t *testing.T) {
	w := &domain.Workout{
		Exercises: []domain.PrescribedExercise{
			{Sets: 3, RestSeconds: 90, Targets: domain.Targets{Reps: intp(8)}},
			{Sets: 2, RestSeconds: 30, Targets: domain.Targets{DurationSeconds: intp(60)}},
		},
	}
	w.RecomputeTotals()
	assert.Equal(t, 5, w.TotalSets)
	assert.Equal(t, 3*90+2*(60+30), w.EstimatedDurationSeconds)
}

func TestWorkout_AccessibleBy(t *testing.T) {
	trainer := primitive.NewObjectID()
	trainee := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	w := &domain.Workout{TrainerID: trainer}
	assert.True(t, w.AccessibleBy(trainee, &trainer))
	assert.False(t, w.AccessibleBy(stranger, nil))

	w.TraineeID = &trainee
	assert.True(t, w.AccessibleBy(trainee, &trainer))
	assert.False(t, w.AccessibleBy(stranger, &trainer))

	w.IsPublic = true
	assert.True(t, w.AccessibleBy(stranger, nil))
}

func TestWorkout_SnapshotIsACopy(t *testing.T) {
	w := testWorkout(2)
	snap := w.Snapshot()
	w.Exercises[0].Sets = 10

	require.Len(t, snap.Exercises, 2)
	assert.Equal(t, 3, snap.Exercises[0].Sets)

	p, ok := snap.Find(w.Exercises[1].ID)
	assert.True(t, ok)
	assert.Equal(t, 2, p.Order)
	_, ok = snap.Find(primitive.NewObjectID())
	assert.False(t, ok)
}

func TestPrescribedExercise_Validate(t *testing.T) {
	p := domain.PrescribedExercise{ExerciseID: primitive.NewObjectID(), Sets: 3, Targets: domain.Targets{Reps: intp(10)}}
	require.NoError(t, p.Validate())

	p.Sets = 0
	assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
	p.Sets = 3
	p.RestSeconds = -1
	assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
	p.RestSeconds = 0
	p.ExerciseID = primitive.NilObjectID
	assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
}
