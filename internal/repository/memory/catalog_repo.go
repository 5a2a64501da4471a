package memory

import (
	"cmp"
	"context"
	"slices"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.s.rlock(ctx)()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	defer r.s.rlock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type exerciseRepo struct{ s *Store }

func (r *exerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	exercise.ID = primitive.NewObjectID()
	r.s.exercises[exercise.ID] = *exercise
	return exercise.ID, nil
}

func (r *exerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	defer r.s.rlock(ctx)()
	e, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *exerciseRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	defer r.s.rlock(ctx)()
	out := []domain.Exercise{}
	for _, e := range r.s.exercises {
		if e.TrainerID == trainerID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b domain.Exercise) int { return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID) })
	return out, nil
}

type workoutRepo struct{ s *Store }

func (r *workoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	workout.ID = primitive.NewObjectID()
	r.s.workouts[workout.ID] = cloneWorkout(*workout)
	return workout.ID, nil
}

func (r *workoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	defer r.s.rlock(ctx)()
	w, ok := r.s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorkout(w)
	return &w, nil
}

func (r *workoutRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error) {
	defer r.s.rlock(ctx)()
	out := []domain.Workout{}
	for _, w := range r.s.workouts {
		if w.TrainerID == trainerID {
			out = append(out, cloneWorkout(w))
		}
	}
	slices.SortFunc(out, func(a, b domain.Workout) int { return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID) })
	return out, nil
}

// Update mirrors the Mongo repository: the stored version must be exactly
// one behind the incoming one.
func (r *workoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	defer r.s.lock(ctx)()
	stored, ok := r.s.workouts[workout.ID]
	if !ok || stored.Version != workout.Version-1 {
		return repository.ErrNotFound
	}
	updated := cloneWorkout(*workout)
	updated.TrainerID = stored.TrainerID
	updated.CreatedAt = stored.CreatedAt
	r.s.workouts[workout.ID] = updated
	return nil
}

type trainingPlanRepo struct{ s *Store }

func (r *trainingPlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	defer r.s.lock(ctx)()
	plan.ID = primitive.NewObjectID()
	r.s.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *trainingPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	defer r.s.rlock(ctx)()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlan(p)
	return &p, nil
}

func (r *trainingPlanRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	defer r.s.rlock(ctx)()
	out := []domain.TrainingPlan{}
	for _, p := range r.s.plans {
		if p.TrainerID == trainerID {
			out = append(out, clonePlan(p))
		}
	}
	slices.SortFunc(out, func(a, b domain.TrainingPlan) int {
		return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
	})
	return out, nil
}

// newestFirst orders by timestamp descending, then by ID for a stable result.
func newestFirst(a, b int64, aID, bID primitive.ObjectID) int {
	if c := cmp.Compare(b, a); c != 0 {
		return c
	}
	return cmp.Compare(aID.Hex(), bID.Hex())
}

// oldestFirst orders by timestamp ascending, then by ID.
func oldestFirst(a, b int64, aID, bID primitive.ObjectID) int {
	if c := cmp.Compare(a, b); c != 0 {
		return c
	}
	return cmp.Compare(aID.Hex(), bID.Hex())
}
