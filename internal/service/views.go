package service

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"
)

// SetLogView is a set log together with its derived values.
type SetLogView struct {
	domain.SetLog
	Volume                float64  `json:"volume"`
	TargetMet             bool     `json:"targetMet"`
	PerformancePercentage *float64 `json:"performancePercentage"`
}

func newSetLogView(set domain.SetLog) SetLogView {
	return SetLogView{
		SetLog:                set,
		Volume:                domain.Round2(set.Volume()),
		TargetMet:             set.TargetMet(),
		PerformancePercentage: set.PerformancePercentage(),
	}
}

// ExerciseLogDetail is an exercise log with its sets and aggregates.
type ExerciseLogDetail struct {
	domain.ExerciseLog
	TotalVolume      float64      `json:"totalVolume"`
	AverageRPE       *float64     `json:"averageRpe"`
	AllSetsCompleted bool         `json:"allSetsCompleted"`
	Sets             []SetLogView `json:"sets"`
}

func newExerciseLogDetail(session *domain.WorkoutSession, exLog domain.ExerciseLog, sets []domain.SetLog) ExerciseLogDetail {
	prescribedSets := 0
	if p, ok := session.Workout.Find(exLog.PrescribedExerciseID); ok {
		prescribedSets = p.Sets
	}
	views := make([]SetLogView, 0, len(sets))
	for _, set := range sets {
		if set.ExerciseLogID == exLog.ID {
			views = append(views, newSetLogView(set))
		}
	}
	return ExerciseLogDetail{
		ExerciseLog:      exLog,
		TotalVolume:      exLog.TotalVolume(sets),
		AverageRPE:       exLog.AverageRPE(sets),
		AllSetsCompleted: exLog.AllSetsCompleted(sets, prescribedSets),
		Sets:             views,
	}
}

// SessionDetail is the full session tree as returned to clients and written
// to the archive.
type SessionDetail struct {
	Session              *domain.WorkoutSession `json:"session"`
	TotalDurationMinutes *float64               `json:"totalDurationMinutes"`
	Progress             domain.Progress        `json:"progress"`
	ExerciseLogs         []ExerciseLogDetail    `json:"exerciseLogs"`
}

// loadSessionDetail reads the session's logs and sets. Called inside a
// transaction it sees exactly what that transaction sees.
func (st Stores) loadSessionDetail(ctx context.Context, session *domain.WorkoutSession) (*SessionDetail, error) {
	logs, err := st.ExerciseLogs.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	sets, err := st.SetLogs.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	details := make([]ExerciseLogDetail, 0, len(logs))
	for _, exLog := range logs {
		details = append(details, newExerciseLogDetail(session, exLog, sets))
	}
	return &SessionDetail{
		Session:              session,
		TotalDurationMinutes: session.TotalDurationMinutes(),
		Progress:             session.Progress(logs),
		ExerciseLogs:         details,
	}, nil
}
