package domain_test

import (
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testPlan(weeks, days int) *domain.TrainingPlan {
	return &domain.TrainingPlan{
		ID:            primitive.NewObjectID(),
		Name:          "Phase 1",
		DurationWeeks: weeks,
		DaysPerWeek:   days,
	}
}

func TestPlanProgress_AdvanceRollsOverWeeks(t *testing.T) {
	plan := testPlan(3, 5)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)
	assert.Equal(t, 1, p.CurrentWeek)
	assert.Equal(t, 1, p.CurrentDay)

	for i := 0; i < 4; i++ {
		require.NoError(t, p.AdvanceDay(plan, t0))
	}
	assert.Equal(t, 1, p.CurrentWeek)
	assert.Equal(t, 5, p.CurrentDay)
	assert.True(t, p.IsOnLastDayOfWeek(plan))

	require.NoError(t, p.AdvanceDay(plan, t0))
	assert.Equal(t, 2, p.CurrentWeek)
	assert.Equal(t, 1, p.CurrentDay)
	assert.False(t, p.IsOnLastWeek(plan))
}

func TestPlanProgress_AdvanceFromFinalDayCompletes(t *testing.T) {
	plan := testPlan(3, 5)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)
	p.CurrentWeek, p.CurrentDay = 3, 5

	done := t0.Add(time.Hour)
	require.NoError(t, p.AdvanceDay(plan, done))
	assert.Equal(t, domain.TrackerCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, done, *p.CompletedAt)
	assert.LessOrEqual(t, p.CurrentWeek, plan.DurationWeeks)
	assert.Equal(t, 3, p.CurrentWeek)
	assert.Equal(t, 5, p.CurrentDay)

	err := p.AdvanceDay(plan, done)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestPlanProgress_SingleDayPlan(t *testing.T) {
	plan := testPlan(1, 1)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)
	require.NoError(t, p.AdvanceDay(plan, t0))
	assert.Equal(t, domain.TrackerCompleted, p.Status)
	assert.Equal(t, 1, p.CurrentWeek)
	assert.Equal(t, 1, p.CurrentDay)
}

func TestPlanProgress_WalkWholePlan(t *testing.T) {
	plan := testPlan(4, 3)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)

	advances := 0
	for p.Status == domain.TrackerActive {
		require.NoError(t, p.AdvanceDay(plan, t0))
		advances++
		require.GreaterOrEqual(t, p.CurrentWeek, 1)
		require.LessOrEqual(t, p.CurrentWeek, plan.DurationWeeks)
		require.GreaterOrEqual(t, p.CurrentDay, 1)
		require.LessOrEqual(t, p.CurrentDay, plan.DaysPerWeek)
	}
	assert.Equal(t, 12, advances)
	assert.Equal(t, domain.TrackerCompleted, p.Status)
}

func TestPlanProgress_PauseResume(t *testing.T) {
	plan := testPlan(2, 2)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)

	require.NoError(t, p.Pause(t0))
	assert.Equal(t, domain.TrackerPaused, p.Status)
	assert.ErrorIs(t, p.AdvanceDay(plan, t0), domain.ErrInvalidStateTransition)
	assert.Equal(t, 1, p.CurrentDay)
	assert.ErrorIs(t, p.Pause(t0), domain.ErrInvalidStateTransition)

	require.NoError(t, p.Resume(t0))
	assert.Equal(t, domain.TrackerActive, p.Status)
	assert.ErrorIs(t, p.Resume(t0), domain.ErrInvalidStateTransition)
	require.NoError(t, p.AdvanceDay(plan, t0))
	assert.Equal(t, 2, p.CurrentDay)
}

func TestPlanProgress_AbandonAndRestart(t *testing.T) {
	plan := testPlan(2, 2)
	p := domain.NewPlanProgress(primitive.NewObjectID(), plan, t0)
	require.NoError(t, p.AdvanceDay(plan, t0))

	require.NoError(t, p.Abandon(t0.Add(time.Minute)))
	assert.Equal(t, domain.TrackerAbandoned, p.Status)
	assert.NotNil(t, p.CompletedAt)
	assert.ErrorIs(t, p.Abandon(t0), domain.ErrInvalidStateTransition)
	assert.ErrorIs(t, p.Resume(t0), domain.ErrInvalidStateTransition)

	restarted := t0.Add(24 * time.Hour)
	p.Restart(restarted)
	assert.Equal(t, domain.TrackerActive, p.Status)
	assert.Equal(t, 1, p.CurrentWeek)
	assert.Equal(t, 1, p.CurrentDay)
	assert.Nil(t, p.CompletedAt)
	assert.Equal(t, restarted, p.StartedAt)
}

func TestTrainingPlan_Validate(t *testing.T) {
	w := primitive.NewObjectID()
	plan := testPlan(2, 3)
	plan.Weeks = []domain.PlanWeek{{WeekNumber: 1, Days: []domain.PlanDay{{DayNumber: 3, WorkoutIDs: []primitive.ObjectID{w}}}}}
	require.NoError(t, plan.Validate())

	ids, ok := plan.WorkoutsFor(1, 3)
	assert.True(t, ok)
	assert.Equal(t, []primitive.ObjectID{w}, ids)
	_, ok = plan.WorkoutsFor(2, 1)
	assert.False(t, ok)

	assert.ErrorIs(t, plan.CheckPosition(3, 1), domain.ErrValidation)
	assert.ErrorIs(t, plan.CheckPosition(1, 0), domain.ErrValidation)
	assert.NoError(t, plan.CheckPosition(2, 3))

	bad := testPlan(2, 8)
	assert.ErrorIs(t, bad.Validate(), domain.ErrValidation)
	bad = testPlan(0, 3)
	assert.ErrorIs(t, bad.Validate(), domain.ErrValidation)
	bad = testPlan(2, 3)
	bad.Weeks = []domain.PlanWeek{{WeekNumber: 3}}
	assert.ErrorIs(t, bad.Validate(), domain.ErrValidation)
}
