package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Status values are closed sets. Unknown values are rejected when decoding
// from JSON or BSON, so business logic only ever sees valid states.

// SessionStatus is the lifecycle state of a WorkoutSession.
type SessionStatus string

const (
	SessionStarted    SessionStatus = "started"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch st := SessionStatus(s); st {
	case SessionStarted, SessionInProgress, SessionCompleted, SessionAbandoned:
		return st, nil
	default:
		return "", &ValidationError{Field: "session status", Reason: fmt.Sprintf("unknown value %q", s)}
	}
}

func (s SessionStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition is allowed.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

func (s SessionStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *SessionStatus) UnmarshalText(text []byte) error {
	st, err := ParseSessionStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s SessionStatus) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(s))
}

func (s *SessionStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw, err := decodeBSONString(t, data)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

// ExerciseLogStatus is the lifecycle state of an ExerciseLog.
type ExerciseLogStatus string

const (
	ExerciseLogPending    ExerciseLogStatus = "pending"
	ExerciseLogInProgress ExerciseLogStatus = "in_progress"
	ExerciseLogCompleted  ExerciseLogStatus = "completed"
	ExerciseLogSkipped    ExerciseLogStatus = "skipped"
)

func ParseExerciseLogStatus(s string) (ExerciseLogStatus, error) {
	switch st := ExerciseLogStatus(s); st {
	case ExerciseLogPending, ExerciseLogInProgress, ExerciseLogCompleted, ExerciseLogSkipped:
		return st, nil
	default:
		return "", &ValidationError{Field: "exercise log status", Reason: fmt.Sprintf("unknown value %q", s)}
	}
}

func (s ExerciseLogStatus) String() string { return string(s) }

func (s ExerciseLogStatus) IsTerminal() bool {
	return s == ExerciseLogCompleted || s == ExerciseLogSkipped
}

func (s ExerciseLogStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *ExerciseLogStatus) UnmarshalText(text []byte) error {
	st, err := ParseExerciseLogStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s ExerciseLogStatus) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(s))
}

func (s *ExerciseLogStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw, err := decodeBSONString(t, data)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

// TrackerStatus is the lifecycle state of a PlanProgress tracker.
type TrackerStatus string

const (
	TrackerActive    TrackerStatus = "active"
	TrackerPaused    TrackerStatus = "paused"
	TrackerCompleted TrackerStatus = "completed"
	TrackerAbandoned TrackerStatus = "abandoned"
)

func ParseTrackerStatus(s string) (TrackerStatus, error) {
	switch st := TrackerStatus(s); st {
	case TrackerActive, TrackerPaused, TrackerCompleted, TrackerAbandoned:
		return st, nil
	default:
		return "", &ValidationError{Field: "tracker status", Reason: fmt.Sprintf("unknown value %q", s)}
	}
}

func (s TrackerStatus) String() string { return string(s) }

func (s TrackerStatus) IsTerminal() bool {
	return s == TrackerCompleted || s == TrackerAbandoned
}

func (s TrackerStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *TrackerStatus) UnmarshalText(text []byte) error {
	st, err := ParseTrackerStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s TrackerStatus) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(string(s))
}

func (s *TrackerStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw, err := decodeBSONString(t, data)
	if err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

func decodeBSONString(t bsontype.Type, data []byte) (string, error) {
	str, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return "", fmt.Errorf("status must be a BSON string, got %s", t)
	}
	return str, nil
}
