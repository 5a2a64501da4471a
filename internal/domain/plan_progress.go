package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanProgress tracks which week and day of a training plan a trainee is on.
// There is at most one tracker per (trainee, plan) pair.
type PlanProgress struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID      primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	TrainingPlanID primitive.ObjectID `bson:"trainingPlanId" json:"trainingPlanId"`
	CurrentWeek    int                `bson:"currentWeek" json:"currentWeek"` // 1..plan.DurationWeeks
	CurrentDay     int                `bson:"currentDay" json:"currentDay"`   // 1..plan.DaysPerWeek
	Status         TrackerStatus      `bson:"status" json:"status"`
	StartedAt      time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NewPlanProgress(traineeID primitive.ObjectID, plan *TrainingPlan, now time.Time) *PlanProgress {
	return &PlanProgress{
		TraineeID:      traineeID,
		TrainingPlanID: plan.ID,
		CurrentWeek:    1,
		CurrentDay:     1,
		Status:         TrackerActive,
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

func (p *PlanProgress) transitionError(op string) error {
	return &StateTransitionError{Entity: "plan progress", Op: op, From: p.Status.String(), Final: p.Status.IsTerminal()}
}

// AdvanceDay moves the pointer one day forward, rolling over to the next
// week after the last day. Advancing past the final day of the final week
// completes the tracker; the pointer then stays on the last valid position.
func (p *PlanProgress) AdvanceDay(plan *TrainingPlan, now time.Time) error {
	if p.Status != TrackerActive {
		return p.transitionError("advance")
	}
	if p.CurrentDay < plan.DaysPerWeek {
		p.CurrentDay++
		p.UpdatedAt = now
		return nil
	}
	if p.CurrentWeek >= plan.DurationWeeks {
		t := now
		p.CurrentWeek = plan.DurationWeeks
		p.CurrentDay = plan.DaysPerWeek
		p.Status = TrackerCompleted
		p.CompletedAt = &t
		p.UpdatedAt = now
		return nil
	}
	p.CurrentWeek++
	p.CurrentDay = 1
	p.UpdatedAt = now
	return nil
}

func (p *PlanProgress) Pause(now time.Time) error {
	if p.Status != TrackerActive {
		return p.transitionError("pause")
	}
	p.Status = TrackerPaused
	p.UpdatedAt = now
	return nil
}

func (p *PlanProgress) Resume(now time.Time) error {
	if p.Status != TrackerPaused {
		return p.transitionError("resume")
	}
	p.Status = TrackerActive
	p.UpdatedAt = now
	return nil
}

func (p *PlanProgress) Abandon(now time.Time) error {
	if p.Status.IsTerminal() {
		return p.transitionError("abandon")
	}
	t := now
	p.Status = TrackerAbandoned
	p.CompletedAt = &t
	p.UpdatedAt = now
	return nil
}

// Restart resets the tracker to week 1, day 1. It is an explicit override
// and is allowed from any status.
func (p *PlanProgress) Restart(now time.Time) {
	p.CurrentWeek = 1
	p.CurrentDay = 1
	p.Status = TrackerActive
	p.StartedAt = now
	p.CompletedAt = nil
	p.UpdatedAt = now
}

func (p *PlanProgress) IsOnLastWeek(plan *TrainingPlan) bool {
	return p.CurrentWeek == plan.DurationWeeks
}

func (p *PlanProgress) IsOnLastDayOfWeek(plan *TrainingPlan) bool {
	return p.CurrentDay == plan.DaysPerWeek
}
