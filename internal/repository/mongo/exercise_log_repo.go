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

const exerciseLogCollectionName = "exercise_logs"

// mongoExerciseLogRepository implements repository.ExerciseLogRepository
type mongoExerciseLogRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseLogRepository creates a new ExerciseLog repository.
func NewMongoExerciseLogRepository(db *mongo.Database) repository.ExerciseLogRepository {
	return &mongoExerciseLogRepository{
		collection: db.Collection(exerciseLogCollectionName),
	}
}

func (r *mongoExerciseLogRepository) Create(ctx context.Context, log *domain.ExerciseLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		// Unique index on (sessionId, prescribedExerciseId)
		return primitive.NilObjectID, translateError(err)
	}
	return insertedObjectID(result)
}

func (r *mongoExerciseLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseLog, error) {
	var log domain.ExerciseLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return nil, translateError(err)
	}
	return &log, nil
}

// ListBySession returns the session's logs in creation order.
func (r *mongoExerciseLogRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExerciseLog, error) {
	logs := []domain.ExerciseLog{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoExerciseLogRepository) Update(ctx context.Context, log *domain.ExerciseLog) error {
	updateDoc := bson.M{
		"$set": bson.M{
			"status":      log.Status,
			"startedAt":   log.StartedAt,
			"completedAt": log.CompletedAt,
			"notes":       log.Notes,
			"updatedAt":   log.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": log.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseLogIndexes creates necessary indexes. Call during startup.
func EnsureExerciseLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One log per prescribed exercise per session
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "prescribedExerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
