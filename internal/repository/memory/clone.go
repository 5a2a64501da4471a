package memory

import (
	"alcyxob/workout-tracker/internal/domain"
)

func clonePrescription(in []domain.PrescribedExercise) []domain.PrescribedExercise {
	if in == nil {
		return nil
	}
	out := make([]domain.PrescribedExercise, len(in))
	copy(out, in)
	return out
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.Exercises = clonePrescription(w.Exercises)
	return w
}

func clonePlan(p domain.TrainingPlan) domain.TrainingPlan {
	if p.Weeks == nil {
		return p
	}
	weeks := make([]domain.PlanWeek, len(p.Weeks))
	for i, w := range p.Weeks {
		days := make([]domain.PlanDay, len(w.Days))
		for j, d := range w.Days {
			d.WorkoutIDs = append(d.WorkoutIDs[:0:0], d.WorkoutIDs...)
			days[j] = d
		}
		w.Days = days
		weeks[i] = w
	}
	p.Weeks = weeks
	return p
}

func cloneSession(s domain.WorkoutSession) domain.WorkoutSession {
	s.Workout.Exercises = clonePrescription(s.Workout.Exercises)
	if s.Plan != nil {
		plan := *s.Plan
		s.Plan = &plan
	}
	return s
}
