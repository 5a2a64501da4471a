package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	minRating = 1
	maxRating = 5
)

// PlanPosition ties a session to a day of a training plan.
type PlanPosition struct {
	PlanID primitive.ObjectID `bson:"planId" json:"planId"`
	Week   int                `bson:"week" json:"week"`
	Day    int                `bson:"day" json:"day"`
}

// WorkoutSession is one performance of a workout by a trainee and the root
// of its exercise and set logs. Once completed, the whole tree is frozen.
type WorkoutSession struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID      primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	WorkoutID      primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	WorkoutVersion int                `bson:"workoutVersion" json:"workoutVersion"` // Pinned at start, never changes
	Workout        WorkoutSnapshot    `bson:"workout" json:"workout"`
	Plan           *PlanPosition      `bson:"plan,omitempty" json:"plan,omitempty"`
	Status         SessionStatus      `bson:"status" json:"status"`
	StartedAt      time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt    *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"` // Set iff completed or abandoned

	// Derived on completion only; abandoned sessions keep them nil.
	TotalDurationSeconds *int64   `bson:"totalDurationSeconds,omitempty" json:"totalDurationSeconds,omitempty"`
	TotalVolume          *float64 `bson:"totalVolume,omitempty" json:"totalVolume,omitempty"`

	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`
	Rating     *int   `bson:"rating,omitempty" json:"rating,omitempty"`
	ArchiveKey string `bson:"archiveKey,omitempty" json:"-"`

	// LockVersion is bumped by every write made under the session lock.
	LockVersion int64     `bson:"lockVersion" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Progress is the read-side completion view. Finalized is false for any
// session that is not completed, so partial numbers are never mistaken for
// finalized totals.
type Progress struct {
	CompletionPercentage float64 `json:"completionPercentage"`
	Finalized            bool    `json:"finalized"`
}

// NewWorkoutSession starts a session, pinning the workout's current version
// and prescription.
func NewWorkoutSession(traineeID primitive.ObjectID, workout *Workout, plan *PlanPosition, now time.Time) *WorkoutSession {
	return &WorkoutSession{
		TraineeID:      traineeID,
		WorkoutID:      workout.ID,
		WorkoutVersion: workout.Version,
		Workout:        workout.Snapshot(),
		Plan:           plan,
		Status:         SessionStarted,
		StartedAt:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsLogsImmutable is the gate consulted by every child-record mutation.
func (s *WorkoutSession) IsLogsImmutable() bool {
	return s.Status == SessionCompleted
}

func (s *WorkoutSession) EnsureLogsMutable() error {
	if s.IsLogsImmutable() {
		return &ImmutableError{SessionID: s.ID.Hex()}
	}
	return nil
}

func (s *WorkoutSession) ensureOwns(sessionID primitive.ObjectID) error {
	if s.ID != sessionID {
		return &NotFoundError{Entity: "workout session", ID: sessionID.Hex()}
	}
	return s.EnsureLogsMutable()
}

// MarkInProgress moves a freshly started session to in_progress once the
// trainee begins logging.
func (s *WorkoutSession) MarkInProgress(now time.Time) bool {
	if s.Status != SessionStarted {
		return false
	}
	s.Status = SessionInProgress
	s.UpdatedAt = now
	return true
}

func (s *WorkoutSession) transitionError(op string) error {
	return &StateTransitionError{Entity: "workout session", Op: op, From: s.Status.String(), Final: s.Status.IsTerminal()}
}

// Complete finalizes the session. It stamps the completion time, freezes the
// duration in whole seconds and the volume over every set of the session, and
// stores notes and rating when given. Nothing changes if it returns an error.
func (s *WorkoutSession) Complete(sets []SetLog, notes *string, rating *int, now time.Time) error {
	if s.Status.IsTerminal() {
		return s.transitionError("complete")
	}
	if rating != nil && (*rating < minRating || *rating > maxRating) {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	completedAt := now
	duration := int64(completedAt.Sub(s.StartedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	volume := 0.0
	for i := range sets {
		if sets[i].SessionID == s.ID {
			volume += sets[i].Volume()
		}
	}
	volume = Round2(volume)

	s.CompletedAt = &completedAt
	s.TotalDurationSeconds = &duration
	s.TotalVolume = &volume
	s.Status = SessionCompleted
	if notes != nil {
		s.Notes = *notes
	}
	if rating != nil {
		r := *rating
		s.Rating = &r
	}
	s.UpdatedAt = now
	return nil
}

// Abandon ends the session without computing totals; partial data stays
// unaggregated.
func (s *WorkoutSession) Abandon(now time.Time) error {
	if s.Status.IsTerminal() {
		return s.transitionError("abandon")
	}
	t := now
	s.Status = SessionAbandoned
	s.CompletedAt = &t
	s.UpdatedAt = now
	return nil
}

// CompletionPercentage is completed exercise logs over prescribed exercises,
// rounded to two decimals. A workout with no exercises yields 0.
func (s *WorkoutSession) CompletionPercentage(logs []ExerciseLog) float64 {
	prescribed := len(s.Workout.Exercises)
	if prescribed == 0 {
		return 0
	}
	completed := 0
	for i := range logs {
		if logs[i].SessionID == s.ID && logs[i].Status == ExerciseLogCompleted {
			completed++
		}
	}
	return percentage(float64(completed), float64(prescribed))
}

func (s *WorkoutSession) Progress(logs []ExerciseLog) Progress {
	return Progress{
		CompletionPercentage: s.CompletionPercentage(logs),
		Finalized:            s.Status == SessionCompleted,
	}
}

// TotalDurationMinutes converts the frozen duration to minutes (two decimals).
func (s *WorkoutSession) TotalDurationMinutes() *float64 {
	if s.TotalDurationSeconds == nil {
		return nil
	}
	m := Round2(float64(*s.TotalDurationSeconds) / 60)
	return &m
}
