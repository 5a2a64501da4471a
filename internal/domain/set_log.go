package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	minRPE = 1
	maxRPE = 10
)

// SetLog records one performed set: targets vs actuals. It has no status of
// its own; a non-nil CompletedAt marks the set as performed.
type SetLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseLogID primitive.ObjectID `bson:"exerciseLogId" json:"exerciseLogId"`
	SessionID     primitive.ObjectID `bson:"sessionId" json:"sessionId"` // Denormalized for the immutability check
	TraineeID     primitive.ObjectID `bson:"traineeId" json:"traineeId"` // Denormalized for ownership checks
	SetNumber     int                `bson:"setNumber" json:"setNumber"` // Unique within the exercise log

	Targets `bson:",inline"`

	ActualReps            *int     `bson:"actualReps,omitempty" json:"actualReps,omitempty"`
	ActualDurationSeconds *int     `bson:"actualDurationSeconds,omitempty" json:"actualDurationSeconds,omitempty"`
	ActualDistanceMeters  *float64 `bson:"actualDistanceMeters,omitempty" json:"actualDistanceMeters,omitempty"`
	Weight                *float64 `bson:"weight,omitempty" json:"weight,omitempty"` // kg, two decimals
	RPE                   *int     `bson:"rpe,omitempty" json:"rpe,omitempty"`
	IsWarmup              bool     `bson:"isWarmup" json:"isWarmup"`
	IsFailure             bool     `bson:"isFailure" json:"isFailure"`
	Notes                 string   `bson:"notes,omitempty" json:"notes,omitempty"`

	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SetLogUpdate is a partial update; nil fields are left untouched.
type SetLogUpdate struct {
	ActualReps            *int
	ActualDurationSeconds *int
	ActualDistanceMeters  *float64
	Weight                *float64
	RPE                   *int
	IsWarmup              *bool
	IsFailure             *bool
	Notes                 *string
}

// NewSetLog builds a set log for an exercise log after validating the set
// number and targets.
func NewSetLog(session *WorkoutSession, log *ExerciseLog, setNumber int, targets Targets, now time.Time) (*SetLog, error) {
	if err := session.ensureOwns(log.SessionID); err != nil {
		return nil, err
	}
	if setNumber < 1 {
		return nil, &ValidationError{Field: "setNumber", Reason: "must be a positive integer"}
	}
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	return &SetLog{
		ExerciseLogID: log.ID,
		SessionID:     log.SessionID,
		TraineeID:     log.TraineeID,
		SetNumber:     setNumber,
		Targets:       targets,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Validate checks every supplied field before anything is applied.
func (u SetLogUpdate) Validate() error {
	if u.ActualReps != nil && *u.ActualReps < 0 {
		return &ValidationError{Field: "actualReps", Reason: "must not be negative"}
	}
	if u.ActualDurationSeconds != nil && *u.ActualDurationSeconds <= 0 {
		return &ValidationError{Field: "actualDurationSeconds", Reason: "must be positive"}
	}
	if u.ActualDistanceMeters != nil && *u.ActualDistanceMeters <= 0 {
		return &ValidationError{Field: "actualDistanceMeters", Reason: "must be positive"}
	}
	if u.Weight != nil && *u.Weight < 0 {
		return &ValidationError{Field: "weight", Reason: "must not be negative"}
	}
	if u.RPE != nil && (*u.RPE < minRPE || *u.RPE > maxRPE) {
		return &ValidationError{Field: "rpe", Reason: "must be between 1 and 10"}
	}
	return nil
}

// Apply validates u and then copies the supplied fields onto the set.
func (s *SetLog) Apply(session *WorkoutSession, u SetLogUpdate, now time.Time) error {
	if err := session.ensureOwns(s.SessionID); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ActualReps != nil {
		s.ActualReps = intPtr(*u.ActualReps)
	}
	if u.ActualDurationSeconds != nil {
		s.ActualDurationSeconds = intPtr(*u.ActualDurationSeconds)
	}
	if u.ActualDistanceMeters != nil {
		s.ActualDistanceMeters = floatPtr(*u.ActualDistanceMeters)
	}
	if u.Weight != nil {
		s.Weight = floatPtr(Round2(*u.Weight))
	}
	if u.RPE != nil {
		s.RPE = intPtr(*u.RPE)
	}
	if u.IsWarmup != nil {
		s.IsWarmup = *u.IsWarmup
	}
	if u.IsFailure != nil {
		s.IsFailure = *u.IsFailure
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	s.UpdatedAt = now
	return nil
}

// CheckDelete verifies the set may be removed from its session.
func (s *SetLog) CheckDelete(session *WorkoutSession) error {
	return session.ensureOwns(s.SessionID)
}

func (s *SetLog) HasActual() bool {
	return s.ActualReps != nil || s.ActualDurationSeconds != nil || s.ActualDistanceMeters != nil
}

func (s *SetLog) IsCompleted() bool {
	return s.CompletedAt != nil
}

// Complete marks the set as performed. A set needs at least one actual value.
func (s *SetLog) Complete(session *WorkoutSession, now time.Time) error {
	if err := session.ensureOwns(s.SessionID); err != nil {
		return err
	}
	if s.CompletedAt != nil {
		return &StateTransitionError{Entity: "set log", Op: "complete", From: "completed", Final: true}
	}
	if !s.HasActual() {
		return &ValidationError{Field: "actuals", Reason: "at least one of actualReps, actualDurationSeconds, actualDistanceMeters is required to complete a set"}
	}
	t := now
	s.CompletedAt = &t
	s.UpdatedAt = now
	return nil
}

// Volume is weight x actual reps. Sets missing either value contribute zero.
func (s *SetLog) Volume() float64 {
	if s.Weight == nil || s.ActualReps == nil {
		return 0
	}
	return *s.Weight * float64(*s.ActualReps)
}

// comparable returns actual and target of the first family that has both.
func (s *SetLog) comparable() (actual, target float64, ok bool) {
	switch {
	case s.Targets.Reps != nil && s.ActualReps != nil:
		return float64(*s.ActualReps), float64(*s.Targets.Reps), true
	case s.Targets.DurationSeconds != nil && s.ActualDurationSeconds != nil:
		return float64(*s.ActualDurationSeconds), float64(*s.Targets.DurationSeconds), true
	case s.Targets.DistanceMeters != nil && s.ActualDistanceMeters != nil:
		return *s.ActualDistanceMeters, *s.Targets.DistanceMeters, true
	default:
		return 0, 0, false
	}
}

// TargetMet reports actual >= target for the active family, and false when
// there is nothing to compare.
func (s *SetLog) TargetMet() bool {
	actual, target, ok := s.comparable()
	return ok && actual >= target
}

// PerformancePercentage is actual/target*100 rounded to two decimals, or nil
// when no family has both values.
func (s *SetLog) PerformancePercentage() *float64 {
	actual, target, ok := s.comparable()
	if !ok || target == 0 {
		return nil
	}
	p := percentage(actual, target)
	return &p
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
