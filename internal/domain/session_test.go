package domain_test

import (
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

func testWorkout(exercises int) *domain.Workout {
	w := &domain.Workout{
		ID:      primitive.NewObjectID(),
		Name:    "Upper body",
		Version: 3,
	}
	for i := 0; i < exercises; i++ {
		w.Exercises = append(w.Exercises, domain.PrescribedExercise{
			ID:         primitive.NewObjectID(),
			ExerciseID: primitive.NewObjectID(),
			Order:      i + 1,
			Sets:       3,
			Targets:    domain.Targets{Reps: intp(10)},
		})
	}
	return w
}

func newSession(exercises int) *domain.WorkoutSession {
	s := domain.NewWorkoutSession(primitive.NewObjectID(), testWorkout(exercises), nil, t0)
	s.ID = primitive.NewObjectID()
	return s
}

func weightedSet(s *domain.WorkoutSession, weight float64, reps int) domain.SetLog {
	return domain.SetLog{
		SessionID:  s.ID,
		Weight:     floatp(weight),
		ActualReps: intp(reps),
	}
}

func TestNewWorkoutSession_PinsWorkoutVersion(t *testing.T) {
	w := testWorkout(2)
	s := domain.NewWorkoutSession(primitive.NewObjectID(), w, nil, t0)

	assert.Equal(t, domain.SessionStarted, s.Status)
	assert.Equal(t, 3, s.WorkoutVersion)
	assert.Equal(t, t0, s.StartedAt)
	assert.Nil(t, s.CompletedAt)

	// later edits to the workout do not leak into the snapshot
	w.Version = 4
	w.Exercises[0].Sets = 10
	assert.Equal(t, 3, s.WorkoutVersion)
	assert.Equal(t, 3, s.Workout.Exercises[0].Sets)
}

func TestWorkoutSession_Complete_ComputesVolume(t *testing.T) {
	s := newSession(1)
	sets := []domain.SetLog{
		weightedSet(s, 100, 10),
		weightedSet(s, 100, 10),
		weightedSet(s, 100, 10),
		{SessionID: s.ID, ActualDurationSeconds: intp(60)},
	}

	require.NoError(t, s.Complete(sets, nil, nil, t0.Add(10*time.Minute)))
	require.NotNil(t, s.TotalVolume)
	assert.Equal(t, 3000.0, *s.TotalVolume)
	assert.Equal(t, domain.SessionCompleted, s.Status)
}

func TestWorkoutSession_Complete_Duration(t *testing.T) {
	s := newSession(2)
	require.NoError(t, s.Complete(nil, nil, nil, t0.Add(125*time.Second)))

	require.NotNil(t, s.TotalDurationSeconds)
	assert.Equal(t, int64(125), *s.TotalDurationSeconds)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, t0.Add(125*time.Second), *s.CompletedAt)
	assert.Equal(t, 2.08, *s.TotalDurationMinutes())
}

func TestWorkoutSession_Complete_NotesAndRating(t *testing.T) {
	s := newSession(1)
	require.NoError(t, s.Complete(nil, strp("felt strong"), intp(5), t0.Add(time.Minute)))
	assert.Equal(t, "felt strong", s.Notes)
	require.NotNil(t, s.Rating)
	assert.Equal(t, 5, *s.Rating)
}

func TestWorkoutSession_Complete_InvalidRatingLeavesSessionUntouched(t *testing.T) {
	s := newSession(1)
	err := s.Complete(nil, nil, intp(6), t0.Add(time.Minute))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.SessionStarted, s.Status)
	assert.Nil(t, s.CompletedAt)
	assert.Nil(t, s.TotalVolume)
}

func TestWorkoutSession_Abandon_DoesNotAggregate(t *testing.T) {
	s := newSession(1)
	require.NoError(t, s.Abandon(t0.Add(time.Minute)))

	assert.Equal(t, domain.SessionAbandoned, s.Status)
	assert.NotNil(t, s.CompletedAt)
	assert.Nil(t, s.TotalDurationSeconds)
	assert.Nil(t, s.TotalVolume)
}

func TestWorkoutSession_TerminalStates(t *testing.T) {
	for _, finish := range []string{"complete", "abandon"} {
		t.Run(finish, func(t *testing.T) {
			s := newSession(1)
			if finish == "complete" {
				require.NoError(t, s.Complete(nil, nil, nil, t0.Add(time.Minute)))
			} else {
				require.NoError(t, s.Abandon(t0.Add(time.Minute)))
			}
			before := *s

			err := s.Complete(nil, strp("again"), nil, t0.Add(time.Hour))
			require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
			assert.Contains(t, err.Error(), "already finalized")

			err = s.Abandon(t0.Add(time.Hour))
			require.ErrorIs(t, err, domain.ErrInvalidStateTransition)

			assert.Equal(t, before, *s)
		})
	}
}

func TestWorkoutSession_IsLogsImmutable(t *testing.T) {
	s := newSession(1)
	assert.False(t, s.IsLogsImmutable())
	s.MarkInProgress(t0)
	assert.Equal(t, domain.SessionInProgress, s.Status)
	assert.False(t, s.IsLogsImmutable())

	abandoned := newSession(1)
	require.NoError(t, abandoned.Abandon(t0))
	assert.False(t, abandoned.IsLogsImmutable())

	require.NoError(t, s.Complete(nil, nil, nil, t0))
	assert.True(t, s.IsLogsImmutable())
	assert.ErrorIs(t, s.EnsureLogsMutable(), domain.ErrImmutable)
}

func TestWorkoutSession_CompletionPercentage(t *testing.T) {
	s := newSession(3)
	logs := []domain.ExerciseLog{
		{SessionID: s.ID, Status: domain.ExerciseLogCompleted},
		{SessionID: s.ID, Status: domain.ExerciseLogSkipped},
		{SessionID: s.ID, Status: domain.ExerciseLogInProgress},
	}
	assert.Equal(t, 33.33, s.CompletionPercentage(logs))

	logs[1].Status = domain.ExerciseLogCompleted
	assert.Equal(t, 66.67, s.CompletionPercentage(logs))

	progress := s.Progress(logs)
	assert.False(t, progress.Finalized)

	empty := newSession(0)
	assert.Equal(t, 0.0, empty.CompletionPercentage(logs))
}
