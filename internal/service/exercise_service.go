package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository" // Import repository package
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateExerciseInput holds the catalog fields of a new exercise.
type CreateExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Difficulty  string
	VideoURL    string
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in CreateExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	clock        domain.Clock
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, clock domain.Clock) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		clock:        clock,
	}
}

// CreateExercise handles the creation of a new exercise by a trainer.
func (s *exerciseService) CreateExercise(ctx context.Context, trainerID primitive.ObjectID, in CreateExerciseInput) (*domain.Exercise, error) {
	if in.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if trainerID == primitive.NilObjectID {
		return nil, &domain.ValidationError{Field: "trainerId", Reason: "is required to create an exercise"}
	}

	now := s.clock.Now()
	exercise := &domain.Exercise{
		TrainerID:   trainerID,
		Name:        in.Name,
		Description: in.Description,
		MuscleGroup: in.MuscleGroup,
		Difficulty:  in.Difficulty,
		VideoURL:    in.VideoURL, // Optional, can be empty
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise. The catalog is readable by
// every authenticated user.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, notFound(err, entityExercise, exerciseID)
	}
	return exercise, nil
}

// GetExercisesByTrainer retrieves all exercises for a specific trainer.
func (s *exerciseService) GetExercisesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	if trainerID == primitive.NilObjectID {
		return nil, &domain.ValidationError{Field: "trainerId", Reason: "cannot be nil"}
	}
	// Empty slice, never ErrNotFound, for a trainer without exercises
	return s.exerciseRepo.GetByTrainerID(ctx, trainerID)
}
