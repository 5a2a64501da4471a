package memory

import (
	"cmp"
	"context"
	"slices"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sessionRepo struct{ s *Store }

func (r *sessionRepo) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	session.ID = primitive.NewObjectID()
	r.s.sessions[session.ID] = cloneSession(*session)
	return session.ID, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	defer r.s.rlock(ctx)()
	return r.get(id)
}

func (r *sessionRepo) get(id primitive.ObjectID) (*domain.WorkoutSession, error) {
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sess = cloneSession(sess)
	return &sess, nil
}

// GetForUpdate bumps the lock version. Exclusion itself comes from the
// store's transaction lock.
func (r *sessionRepo) GetForUpdate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	defer r.s.lock(ctx)()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sess.LockVersion++
	r.s.sessions[id] = sess
	return r.get(id)
}

func (r *sessionRepo) ListByTrainee(ctx context.Context, traineeID primitive.ObjectID, status *domain.SessionStatus) ([]domain.WorkoutSession, error) {
	defer r.s.rlock(ctx)()
	out := []domain.WorkoutSession{}
	for _, sess := range r.s.sessions {
		if sess.TraineeID != traineeID || (status != nil && sess.Status != *status) {
			continue
		}
		out = append(out, cloneSession(sess))
	}
	slices.SortFunc(out, func(a, b domain.WorkoutSession) int {
		return newestFirst(a.StartedAt.UnixNano(), b.StartedAt.UnixNano(), a.ID, b.ID)
	})
	return out, nil
}

// Update writes the mutable fields only, like the Mongo repository.
func (r *sessionRepo) Update(ctx context.Context, session *domain.WorkoutSession) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.sessions[session.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = session.Status
	stored.CompletedAt = session.CompletedAt
	stored.TotalDurationSeconds = session.TotalDurationSeconds
	stored.TotalVolume = session.TotalVolume
	stored.Notes = session.Notes
	stored.Rating = session.Rating
	stored.ArchiveKey = session.ArchiveKey
	stored.UpdatedAt = session.UpdatedAt
	r.s.sessions[session.ID] = stored
	return nil
}

type exerciseLogRepo struct{ s *Store }

func (r *exerciseLogRepo) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	for _, l := range r.s.exerciseLogs {
		if l.SessionID == log.SessionID && l.PrescribedExerciseID == log.PrescribedExerciseID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	log.ID = primitive.NewObjectID()
	r.s.exerciseLogs[log.ID] = *log
	return log.ID, nil
}

func (r *exerciseLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	defer r.s.rlock(ctx)()
	l, ok := r.s.exerciseLogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *exerciseLogRepo) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	defer r.s.rlock(ctx)()
	out := []domain.ExerciseLog{}
	for _, l := range r.s.exerciseLogs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b domain.ExerciseLog) int {
		return oldestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	return out, nil
}

func (r *exerciseLogRepo) Update(ctx context.Context, log *domain.ExerciseLog) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.exerciseLogs[log.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = log.Status
	stored.StartedAt = log.StartedAt
	stored.CompletedAt = log.CompletedAt
	stored.Notes = log.Notes
	stored.UpdatedAt = log.UpdatedAt
	r.s.exerciseLogs[log.ID] = stored
	return nil
}

type setLogRepo struct{ s *Store }

func (r *setLogRepo) Create(ctx context.Context, set *domain.SetLog) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.setLogs {
		if existing.ExerciseLogID == set.ExerciseLogID && existing.SetNumber == set.SetNumber {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	set.ID = primitive.NewObjectID()
	r.s.setLogs[set.ID] = *set
	return set.ID, nil
}

func (r *setLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetLog, error) {
	defer r.s.rlock(ctx)()
	set, ok := r.s.setLogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &set, nil
}

func (r *setLogRepo) ListByExerciseLog(ctx context.Context, exerciseLogID primitive.ObjectID) ([]domain.SetLog, error) {
	return r.filter(ctx, func(set domain.SetLog) bool { return set.ExerciseLogID == exerciseLogID }), nil
}

func (r *setLogRepo) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error) {
	return r.filter(ctx, func(set domain.SetLog) bool { return set.SessionID == sessionID }), nil
}

func (r *setLogRepo) filter(ctx context.Context, keep func(domain.SetLog) bool) []domain.SetLog {
	defer r.s.rlock(ctx)()
	out := []domain.SetLog{}
	for _, set := range r.s.setLogs {
		if keep(set) {
			out = append(out, set)
		}
	}
	slices.SortFunc(out, func(a, b domain.SetLog) int {
		if c := cmp.Compare(a.ExerciseLogID.Hex(), b.ExerciseLogID.Hex()); c != 0 {
			return c
		}
		return cmp.Compare(a.SetNumber, b.SetNumber)
	})
	return out
}

func (r *setLogRepo) Update(ctx context.Context, set *domain.SetLog) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.setLogs[set.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.ActualReps = set.ActualReps
	stored.ActualDurationSeconds = set.ActualDurationSeconds
	stored.ActualDistanceMeters = set.ActualDistanceMeters
	stored.Weight = set.Weight
	stored.RPE = set.RPE
	stored.IsWarmup = set.IsWarmup
	stored.IsFailure = set.IsFailure
	stored.Notes = set.Notes
	stored.CompletedAt = set.CompletedAt
	stored.UpdatedAt = set.UpdatedAt
	r.s.setLogs[set.ID] = stored
	return nil
}

func (r *setLogRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.setLogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.setLogs, id)
	return nil
}

type planProgressRepo struct{ s *Store }

func (r *planProgressRepo) Create(ctx context.Context, progress *domain.PlanProgress) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	for _, p := range r.s.progress {
		if p.TraineeID == progress.TraineeID && p.TrainingPlanID == progress.TrainingPlanID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	progress.ID = primitive.NewObjectID()
	r.s.progress[progress.ID] = *progress
	return progress.ID, nil
}

func (r *planProgressRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanProgress, error) {
	defer r.s.rlock(ctx)()
	p, ok := r.s.progress[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *planProgressRepo) GetByTraineeAndPlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*domain.PlanProgress, error) {
	defer r.s.rlock(ctx)()
	for _, p := range r.s.progress {
		if p.TraineeID == traineeID && p.TrainingPlanID == planID {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *planProgressRepo) ListByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PlanProgress, error) {
	defer r.s.rlock(ctx)()
	out := []domain.PlanProgress{}
	for _, p := range r.s.progress {
		if p.TraineeID == traineeID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.PlanProgress) int {
		return newestFirst(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano(), a.ID, b.ID)
	})
	return out, nil
}

func (r *planProgressRepo) Update(ctx context.Context, progress *domain.PlanProgress) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.progress[progress.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.CurrentWeek = progress.CurrentWeek
	stored.CurrentDay = progress.CurrentDay
	stored.Status = progress.Status
	stored.StartedAt = progress.StartedAt
	stored.CompletedAt = progress.CompletedAt
	stored.UpdatedAt = progress.UpdatedAt
	r.s.progress[progress.ID] = stored
	return nil
}
