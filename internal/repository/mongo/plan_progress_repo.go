package mongo

import (
	"context"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planProgressCollectionName = "plan_progress"

// mongoPlanProgressRepository implements repository.PlanProgressRepository
type mongoPlanProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanProgressRepository creates a new PlanProgress repository.
func NewMongoPlanProgressRepository(db *mongo.Database) repository.PlanProgressRepository {
	return &mongoPlanProgressRepository{
		collection: db.Collection(planProgressCollectionName),
	}
}

func (r *mongoPlanProgressRepository) Create(ctx context.Context, progress *domain.PlanProgress) (primitive.ObjectID, error) {
	progress.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, progress)
	if err != nil {
		// Unique index on (traineeId, trainingPlanId)
		return primitive.NilObjectID, translateError(err)
	}
	return insertedObjectID(result)
}

func (r *mongoPlanProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanProgress, error) {
	var progress domain.PlanProgress
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&progress); err != nil {
		return nil, translateError(err)
	}
	return &progress, nil
}

func (r *mongoPlanProgressRepository) GetByTraineeAndPlan(ctx context.Context, traineeID, planID primitive.ObjectID) (*domain.PlanProgress, error) {
	var progress domain.PlanProgress
	filter := bson.M{"traineeId": traineeID, "trainingPlanId": planID}
	if err := r.collection.FindOne(ctx, filter).Decode(&progress); err != nil {
		return nil, translateError(err)
	}
	return &progress, nil
}

func (r *mongoPlanProgressRepository) ListByTrainee(ctx context.Context, traineeID primitive.ObjectID) ([]domain.PlanProgress, error) {
	trackers := []domain.PlanProgress{}
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"traineeId": traineeID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &trackers); err != nil {
		return nil, err
	}
	return trackers, nil
}

func (r *mongoPlanProgressRepository) Update(ctx context.Context, progress *domain.PlanProgress) error {
	updateDoc := bson.M{
		"$set": bson.M{
			"currentWeek": progress.CurrentWeek,
			"currentDay":  progress.CurrentDay,
			"status":      progress.Status,
			"startedAt":   progress.StartedAt,
			"completedAt": progress.CompletedAt,
			"updatedAt":   progress.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": progress.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanProgressIndexes creates necessary indexes. Call during startup.
func EnsurePlanProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one tracker per trainee per plan
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "trainingPlanId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
