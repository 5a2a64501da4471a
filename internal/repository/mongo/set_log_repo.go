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

const setLogCollectionName = "set_logs"

// mongoSetLogRepository implements repository.SetLogRepository
type mongoSetLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSetLogRepository creates a new SetLog repository.
func NewMongoSetLogRepository(db *mongo.Database) repository.SetLogRepository {
	return &mongoSetLogRepository{
		collection: db.Collection(setLogCollectionName),
	}
}

func (r *mongoSetLogRepository) Create(ctx context.Context, set *domain.SetLog) (primitive.ObjectID, error) {
	set.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, set)
	if err != nil {
		// Unique index on (exerciseLogId, setNumber)
		return primitive.NilObjectID, translateError(err)
	}
	return insertedObjectID(result)
}

func (r *mongoSetLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetLog, error) {
	var set domain.SetLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&set); err != nil {
		return nil, translateError(err)
	}
	return &set, nil
}

func (r *mongoSetLogRepository) ListByExerciseLog(ctx context.Context, exerciseLogID primitive.ObjectID) ([]domain.SetLog, error) {
	return r.find(ctx, bson.M{"exerciseLogId": exerciseLogID})
}

func (r *mongoSetLogRepository) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error) {
	return r.find(ctx, bson.M{"sessionId": sessionID})
}

func (r *mongoSetLogRepository) find(ctx context.Context, filter bson.M) ([]domain.SetLog, error) {
	sets := []domain.SetLog{}
	findOptions := options.Find().SetSort(bson.D{{Key: "exerciseLogId", Value: 1}, {Key: "setNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// Update replaces the performance fields of a set. Set number and parent
// references are fixed at creation.
func (r *mongoSetLogRepository) Update(ctx context.Context, set *domain.SetLog) error {
	updateDoc := bson.M{
		"$set": bson.M{
			"actualReps":            set.ActualReps,
			"actualDurationSeconds": set.ActualDurationSeconds,
			"actualDistanceMeters":  set.ActualDistanceMeters,
			"weight":                set.Weight,
			"rpe":                   set.RPE,
			"isWarmup":              set.IsWarmup,
			"isFailure":             set.IsFailure,
			"notes":                 set.Notes,
			"completedAt":           set.CompletedAt,
			"updatedAt":             set.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": set.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSetLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSetLogIndexes creates necessary indexes. Call during startup.
func EnsureSetLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "exerciseLogId", Value: 1}, {Key: "setNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Session-wide volume aggregation on completion
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
