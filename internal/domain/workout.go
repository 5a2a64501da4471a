package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricFamily names which performance measure a set is judged by.
type MetricFamily string

const (
	FamilyNone     MetricFamily = ""
	FamilyReps     MetricFamily = "reps"
	FamilyDuration MetricFamily = "duration"
	FamilyDistance MetricFamily = "distance"
)

// Targets holds the prescribed goal of a set. Exactly one family is
// expected to be meaningful; reps take precedence, then duration, then distance.
type Targets struct {
	Reps            *int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	DurationSeconds *int     `bson:"targetDurationSeconds,omitempty" json:"targetDurationSeconds,omitempty"`
	DistanceMeters  *float64 `bson:"targetDistanceMeters,omitempty" json:"targetDistanceMeters,omitempty"`
}

func (t Targets) HasAny() bool {
	return t.Reps != nil || t.DurationSeconds != nil || t.DistanceMeters != nil
}

func (t Targets) Family() MetricFamily {
	switch {
	case t.Reps != nil:
		return FamilyReps
	case t.DurationSeconds != nil:
		return FamilyDuration
	case t.DistanceMeters != nil:
		return FamilyDistance
	default:
		return FamilyNone
	}
}

// Validate requires at least one target and rejects non-positive values.
func (t Targets) Validate() error {
	if !t.HasAny() {
		return &ValidationError{Field: "targets", Reason: "at least one of targetReps, targetDurationSeconds, targetDistanceMeters is required"}
	}
	if t.Reps != nil && *t.Reps <= 0 {
		return &ValidationError{Field: "targetReps", Reason: "must be positive"}
	}
	if t.DurationSeconds != nil && *t.DurationSeconds <= 0 {
		return &ValidationError{Field: "targetDurationSeconds", Reason: "must be positive"}
	}
	if t.DistanceMeters != nil && *t.DistanceMeters <= 0 {
		return &ValidationError{Field: "targetDistanceMeters", Reason: "must be positive"}
	}
	return nil
}

// PrescribedExercise is one entry of a workout: which exercise, how many
// sets, and the per-set targets.
type PrescribedExercise struct {
	ID          primitive.ObjectID `bson:"id" json:"id"` // Referenced by exercise logs
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order       int                `bson:"order" json:"order"`
	Sets        int                `bson:"sets" json:"sets"`
	Targets     `bson:",inline"`
	RestSeconds int  `bson:"restSeconds" json:"restSeconds"`
	IsOptional  bool `bson:"isOptional" json:"isOptional"`
}

func (p PrescribedExercise) Validate() error {
	if p.ExerciseID == primitive.NilObjectID {
		return &ValidationError{Field: "exerciseId", Reason: "is required"}
	}
	if p.Sets < 1 {
		return &ValidationError{Field: "sets", Reason: "must be at least 1"}
	}
	if p.RestSeconds < 0 {
		return &ValidationError{Field: "restSeconds", Reason: "must not be negative"}
	}
	return p.Targets.Validate()
}

// Workout is an ordered list of prescribed exercises authored by a trainer.
// Version increases on every edit; sessions pin the version they started with.
type Workout struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	TraineeID *primitive.ObjectID `bson:"traineeId,omitempty" json:"traineeId,omitempty"` // Assigned trainee; nil means any trainee of the trainer
	IsPublic  bool                `bson:"isPublic" json:"isPublic"`
	Name      string              `bson:"name" json:"name"` // e.g., "Day 1: Upper Body"
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Version   int                 `bson:"version" json:"version"`
	Exercises []PrescribedExercise `bson:"exercises" json:"exercises"`

	// Derived from Exercises by RecomputeTotals.
	TotalSets                int `bson:"totalSets" json:"totalSets"`
	EstimatedDurationSeconds int `bson:"estimatedDurationSeconds" json:"estimatedDurationSeconds"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RecomputeTotals refreshes the derived totals. Use cases that change the
// exercise list call it explicitly as their last step.
func (w *Workout) RecomputeTotals() {
	totalSets, estimated := 0, 0
	for _, p := range w.Exercises {
		totalSets += p.Sets
		work := 0
		if p.DurationSeconds != nil {
			work = *p.DurationSeconds
		}
		estimated += p.Sets * (work + p.RestSeconds)
	}
	w.TotalSets = totalSets
	w.EstimatedDurationSeconds = estimated
}

// AccessibleBy reports whether a trainee (managed by traineeTrainerID, if
// any) may perform this workout.
func (w *Workout) AccessibleBy(traineeID primitive.ObjectID, traineeTrainerID *primitive.ObjectID) bool {
	if w.IsPublic {
		return true
	}
	if w.TraineeID != nil {
		return *w.TraineeID == traineeID
	}
	return traineeTrainerID != nil && *traineeTrainerID == w.TrainerID
}

// Snapshot copies the prescription as it is right now.
func (w *Workout) Snapshot() WorkoutSnapshot {
	exercises := make([]PrescribedExercise, len(w.Exercises))
	copy(exercises, w.Exercises)
	return WorkoutSnapshot{
		Name:      w.Name,
		Exercises: exercises,
	}
}

// WorkoutSnapshot is the frozen copy of a workout's prescription stored on a
// session, so later edits to the workout never alter historical targets.
type WorkoutSnapshot struct {
	Name      string               `bson:"name" json:"name"`
	Exercises []PrescribedExercise `bson:"exercises" json:"exercises"`
}

func (s WorkoutSnapshot) Find(prescribedID primitive.ObjectID) (PrescribedExercise, bool) {
	for _, p := range s.Exercises {
		if p.ID == prescribedID {
			return p, true
		}
	}
	return PrescribedExercise{}, false
}
