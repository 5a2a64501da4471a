package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutInput is the editable content of a workout.
type WorkoutInput struct {
	Name      string
	Notes     string
	TraineeID *primitive.ObjectID
	IsPublic  bool
	Exercises []domain.PrescribedExercise
}

// TrainingPlanInput is the content of a new training plan.
type TrainingPlanInput struct {
	Name          string
	Description   string
	TraineeID     *primitive.ObjectID
	DurationWeeks int
	DaysPerWeek   int
	Weeks         []domain.PlanWeek
}

// TrainerService covers what trainers author: workouts and training plans.
type TrainerService interface {
	// Workouts
	CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	AddPrescribedExercise(ctx context.Context, trainerID, workoutID primitive.ObjectID, exercise domain.PrescribedExercise) (*domain.Workout, error)
	GetWorkoutsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error)

	// Training plans
	CreateTrainingPlan(ctx context.Context, trainerID primitive.ObjectID, in TrainingPlanInput) (*domain.TrainingPlan, error)
	GetTrainingPlansByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error)
}

// --- Service Implementation ---

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	workoutRepo  repository.WorkoutRepository
	planRepo     repository.TrainingPlanRepository
	clock        domain.Clock
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	workoutRepo repository.WorkoutRepository,
	planRepo repository.TrainingPlanRepository,
	clock domain.Clock,
) TrainerService {
	return &trainerService{
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		workoutRepo:  workoutRepo,
		planRepo:     planRepo,
		clock:        clock,
	}
}

// === Workouts ===

// CreateWorkout stores version 1 of a new workout.
func (s *trainerService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	// 1. Validate Inputs
	exercises, err := s.prepareWorkout(ctx, trainerID, in)
	if err != nil {
		return nil, err
	}

	// 2. Build the workout
	now := s.clock.Now()
	workout := &domain.Workout{
		TrainerID: trainerID,
		TraineeID: in.TraineeID,
		IsPublic:  in.IsPublic,
		Name:      in.Name,
		Notes:     in.Notes,
		Version:   1,
		Exercises: exercises,
		CreatedAt: now,
		UpdatedAt: now,
	}
	workout.RecomputeTotals()

	// 3. Save
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// UpdateWorkout replaces the workout content and bumps its version. Sessions
// already started keep the prescription they pinned.
func (s *trainerService) UpdateWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	// 1. Validate Inputs
	exercises, err := s.prepareWorkout(ctx, trainerID, in)
	if err != nil {
		return nil, err
	}

	// 2. Get the workout and check ownership
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}

	// 3. Apply, totals last
	workout.Name = in.Name
	workout.Notes = in.Notes
	workout.TraineeID = in.TraineeID
	workout.IsPublic = in.IsPublic
	workout.Exercises = exercises
	workout.RecomputeTotals()

	// 4. Save
	if err := s.saveWorkout(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// AddPrescribedExercise appends an exercise to the workout. Recomputing the
// totals is the last step before saving.
func (s *trainerService) AddPrescribedExercise(ctx context.Context, trainerID, workoutID primitive.ObjectID, exercise domain.PrescribedExercise) (*domain.Workout, error) {
	// 1. Get the workout and check ownership
	workout, err := s.ownedWorkout(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}

	// 2. Validate the new entry
	exercise.Order = len(workout.Exercises) + 1
	if err := s.preparePrescribed(ctx, trainerID, &exercise); err != nil {
		return nil, err
	}

	// 3. Append and recompute totals
	workout.Exercises = append(workout.Exercises, exercise)
	workout.RecomputeTotals()

	// 4. Save
	if err := s.saveWorkout(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// GetWorkoutsByTrainer retrieves the workouts authored by the trainer.
func (s *trainerService) GetWorkoutsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error) {
	if trainerID == primitive.NilObjectID {
		return nil, &domain.ValidationError{Field: "trainerId", Reason: "is required"}
	}
	return s.workoutRepo.GetByTrainerID(ctx, trainerID)
}

func (s *trainerService) ownedWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, notFound(err, entityWorkout, workoutID)
	}
	if workout.TrainerID != trainerID {
		return nil, &domain.NotFoundError{Entity: entityWorkout, ID: workoutID.Hex()}
	}
	return workout, nil
}

// saveWorkout bumps the version and writes the workout. The repository only
// accepts the write on top of the version that was read.
func (s *trainerService) saveWorkout(ctx context.Context, workout *domain.Workout) error {
	workout.Version++
	workout.UpdatedAt = s.clock.Now()
	err := s.workoutRepo.Update(ctx, workout)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.ConflictError{Entity: entityWorkout, Reason: "the workout was modified concurrently, reload and retry"}
	}
	return err
}

func (s *trainerService) prepareWorkout(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) ([]domain.PrescribedExercise, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if err := s.checkAssignedTrainee(ctx, trainerID, in.TraineeID); err != nil {
		return nil, err
	}
	exercises := make([]domain.PrescribedExercise, len(in.Exercises))
	for i := range in.Exercises {
		exercises[i] = in.Exercises[i]
		exercises[i].Order = i + 1
		if err := s.preparePrescribed(ctx, trainerID, &exercises[i]); err != nil {
			return nil, err
		}
	}
	return exercises, nil
}

// preparePrescribed validates an entry, checks the exercise belongs to the
// trainer's catalog and assigns the entry an ID when it has none.
func (s *trainerService) preparePrescribed(ctx context.Context, trainerID primitive.ObjectID, p *domain.PrescribedExercise) error {
	if err := p.Validate(); err != nil {
		return err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, p.ExerciseID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil || exercise.TrainerID != trainerID {
		return &domain.ValidationError{Field: "exerciseId", Reason: fmt.Sprintf("exercise %s is not in your catalog", p.ExerciseID.Hex())}
	}
	if p.ID == primitive.NilObjectID {
		p.ID = primitive.NewObjectID()
	}
	return nil
}

// checkAssignedTrainee accepts only trainees managed by the trainer.
func (s *trainerService) checkAssignedTrainee(ctx context.Context, trainerID primitive.ObjectID, traineeID *primitive.ObjectID) error {
	if traineeID == nil {
		return nil
	}
	trainee, err := s.userRepo.GetByID(ctx, *traineeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil || !trainee.IsTrainee() || trainee.TrainerID == nil || *trainee.TrainerID != trainerID {
		return &domain.ValidationError{Field: "traineeId", Reason: "is not a trainee managed by this trainer"}
	}
	return nil
}

// === Training Plans ===

// CreateTrainingPlan stores a plan after checking every scheduled workout
// belongs to the trainer.
func (s *trainerService) CreateTrainingPlan(ctx context.Context, trainerID primitive.ObjectID, in TrainingPlanInput) (*domain.TrainingPlan, error) {
	// 1. Validate Inputs
	now := s.clock.Now()
	plan := &domain.TrainingPlan{
		TrainerID:     trainerID,
		TraineeID:     in.TraineeID,
		Name:          in.Name,
		Description:   in.Description,
		DurationWeeks: in.DurationWeeks,
		DaysPerWeek:   in.DaysPerWeek,
		Weeks:         in.Weeks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if plan.Weeks == nil {
		plan.Weeks = []domain.PlanWeek{}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkAssignedTrainee(ctx, trainerID, in.TraineeID); err != nil {
		return nil, err
	}

	// 2. Verify scheduled workouts
	checked := map[primitive.ObjectID]bool{}
	for _, week := range plan.Weeks {
		for _, day := range week.Days {
			for _, workoutID := range day.WorkoutIDs {
				if checked[workoutID] {
					continue
				}
				if _, err := s.ownedWorkout(ctx, trainerID, workoutID); err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return nil, &domain.ValidationError{Field: "workoutIds", Reason: fmt.Sprintf("workout %s is not one of your workouts", workoutID.Hex())}
					}
					return nil, err
				}
				checked[workoutID] = true
			}
		}
	}

	// 3. Save
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetTrainingPlansByTrainer retrieves the plans authored by the trainer.
func (s *trainerService) GetTrainingPlansByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if trainerID == primitive.NilObjectID {
		return nil, &domain.ValidationError{Field: "trainerId", Reason: "is required"}
	}
	return s.planRepo.GetByTrainerID(ctx, trainerID)
}
