// internal/domain/training_plan.go
package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxDaysPerWeek = 7

// TrainingPlan is a multi-week program: weeks -> days -> assigned workouts.
type TrainingPlan struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID  `bson:"trainerId" json:"trainerId"`                     // Who created the plan
	TraineeID     *primitive.ObjectID `bson:"traineeId,omitempty" json:"traineeId,omitempty"` // Who the plan is for; nil means any trainee
	Name          string              `bson:"name" json:"name"`                               // e.g., "Phase 1: Hypertrophy"
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks int                 `bson:"durationWeeks" json:"durationWeeks"`
	DaysPerWeek   int                 `bson:"daysPerWeek" json:"daysPerWeek"`
	Weeks         []PlanWeek          `bson:"weeks" json:"weeks"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type PlanWeek struct {
	WeekNumber int       `bson:"weekNumber" json:"weekNumber"`
	Days       []PlanDay `bson:"days" json:"days"`
}

type PlanDay struct {
	DayNumber  int                  `bson:"dayNumber" json:"dayNumber"`
	WorkoutIDs []primitive.ObjectID `bson:"workoutIds" json:"workoutIds"`
}

func (p *TrainingPlan) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if p.DurationWeeks < 1 {
		return &ValidationError{Field: "durationWeeks", Reason: "must be at least 1"}
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > maxDaysPerWeek {
		return &ValidationError{Field: "daysPerWeek", Reason: fmt.Sprintf("must be between 1 and %d", maxDaysPerWeek)}
	}
	for _, w := range p.Weeks {
		if w.WeekNumber < 1 || w.WeekNumber > p.DurationWeeks {
			return &ValidationError{Field: "weeks", Reason: fmt.Sprintf("week %d is outside 1..%d", w.WeekNumber, p.DurationWeeks)}
		}
		for _, d := range w.Days {
			if d.DayNumber < 1 || d.DayNumber > p.DaysPerWeek {
				return &ValidationError{Field: "days", Reason: fmt.Sprintf("day %d of week %d is outside 1..%d", d.DayNumber, w.WeekNumber, p.DaysPerWeek)}
			}
		}
	}
	return nil
}

// CheckPosition validates a (week, day) pointer against the plan's shape.
func (p *TrainingPlan) CheckPosition(week, day int) error {
	if week < 1 || week > p.DurationWeeks {
		return &ValidationError{Field: "week", Reason: fmt.Sprintf("must be between 1 and %d", p.DurationWeeks)}
	}
	if day < 1 || day > p.DaysPerWeek {
		return &ValidationError{Field: "day", Reason: fmt.Sprintf("must be between 1 and %d", p.DaysPerWeek)}
	}
	return nil
}

// WorkoutsFor returns the workouts scheduled on a plan day. The second value
// is false when the plan does not define that day at all.
func (p *TrainingPlan) WorkoutsFor(week, day int) ([]primitive.ObjectID, bool) {
	for _, w := range p.Weeks {
		if w.WeekNumber != week {
			continue
		}
		for _, d := range w.Days {
			if d.DayNumber == day {
				return d.WorkoutIDs, true
			}
		}
	}
	return nil, false
}

func (p *TrainingPlan) AccessibleBy(traineeID primitive.ObjectID) bool {
	return p.TraineeID == nil || *p.TraineeID == traineeID
}
