package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseLog records one exercise being performed within a session.
// Status only moves forward: pending -> in_progress -> completed, or skipped.
type ExerciseLog struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID            primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	TraineeID            primitive.ObjectID `bson:"traineeId" json:"traineeId"`                       // Denormalized for ownership checks
	PrescribedExerciseID primitive.ObjectID `bson:"prescribedExerciseId" json:"prescribedExerciseId"` // Entry in the session's workout snapshot
	ExerciseID           primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Status               ExerciseLogStatus  `bson:"status" json:"status"`
	StartedAt            *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt          *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Notes                string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewExerciseLog creates a pending log for a prescribed exercise of the
// session's workout snapshot. A zero exerciseID means "the prescribed one".
func NewExerciseLog(session *WorkoutSession, prescribedID, exerciseID primitive.ObjectID, now time.Time) (*ExerciseLog, error) {
	if err := session.EnsureLogsMutable(); err != nil {
		return nil, err
	}
	prescribed, ok := session.Workout.Find(prescribedID)
	if !ok {
		return nil, &ValidationError{Field: "prescribedExerciseId", Reason: "is not part of the session's workout"}
	}
	if exerciseID == primitive.NilObjectID {
		exerciseID = prescribed.ExerciseID
	}
	if exerciseID != prescribed.ExerciseID {
		return nil, &ValidationError{Field: "exerciseId", Reason: "does not match the prescribed exercise"}
	}
	return &ExerciseLog{
		SessionID:            session.ID,
		TraineeID:            session.TraineeID,
		PrescribedExerciseID: prescribedID,
		ExerciseID:           exerciseID,
		Status:               ExerciseLogPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func (l *ExerciseLog) transitionError(op string) error {
	return &StateTransitionError{Entity: "exercise log", Op: op, From: l.Status.String(), Final: l.Status.IsTerminal()}
}

// Start moves a pending log to in_progress. Starting twice is an error.
func (l *ExerciseLog) Start(session *WorkoutSession, now time.Time) error {
	if err := session.ensureOwns(l.SessionID); err != nil {
		return err
	}
	if l.Status != ExerciseLogPending {
		return l.transitionError("start")
	}
	t := now
	l.Status = ExerciseLogInProgress
	l.StartedAt = &t
	l.UpdatedAt = now
	return nil
}

// Complete finishes the log. A pending log may be completed directly; its
// start time is then stamped too.
func (l *ExerciseLog) Complete(session *WorkoutSession, notes *string, now time.Time) error {
	return l.finish(session, ExerciseLogCompleted, "complete", notes, now)
}

// Skip ends the log without performing it. Completion time is still stamped
// so duration math over the session stays consistent.
func (l *ExerciseLog) Skip(session *WorkoutSession, notes *string, now time.Time) error {
	return l.finish(session, ExerciseLogSkipped, "skip", notes, now)
}

func (l *ExerciseLog) finish(session *WorkoutSession, to ExerciseLogStatus, op string, notes *string, now time.Time) error {
	if err := session.ensureOwns(l.SessionID); err != nil {
		return err
	}
	if l.Status.IsTerminal() {
		return l.transitionError(op)
	}
	t := now
	if l.StartedAt == nil && to == ExerciseLogCompleted {
		l.StartedAt = &t
	}
	l.Status = to
	l.CompletedAt = &t
	if notes != nil {
		l.Notes = *notes
	}
	l.UpdatedAt = now
	return nil
}

// TotalVolume sums weight x actual reps over the log's sets.
func (l *ExerciseLog) TotalVolume(sets []SetLog) float64 {
	total := 0.0
	for i := range sets {
		if sets[i].ExerciseLogID != l.ID {
			continue
		}
		total += sets[i].Volume()
	}
	return Round2(total)
}

// AverageRPE is the mean of recorded RPE values, or nil when none is recorded.
func (l *ExerciseLog) AverageRPE(sets []SetLog) *float64 {
	sum, n := 0, 0
	for i := range sets {
		if sets[i].ExerciseLogID != l.ID || sets[i].RPE == nil {
			continue
		}
		sum += *sets[i].RPE
		n++
	}
	if n == 0 {
		return nil
	}
	avg := Round1(float64(sum) / float64(n))
	return &avg
}

// AllSetsCompleted reports whether at least prescribedSets sets have been performed.
func (l *ExerciseLog) AllSetsCompleted(sets []SetLog, prescribedSets int) bool {
	done := 0
	for i := range sets {
		if sets[i].ExerciseLogID == l.ID && sets[i].IsCompleted() {
			done++
		}
	}
	return done >= prescribedSets
}
