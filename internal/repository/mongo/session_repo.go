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

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new WorkoutSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, translateError(err)
	}
	return insertedObjectID(result)
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// GetForUpdate bumps lockVersion and returns the session as of that write.
// Inside a transaction the write claims the document, so any other
// transaction writing the same session hits a write conflict and is retried
// against the committed state.
func (r *mongoSessionRepository) GetForUpdate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"lockVersion": 1}},
		opts,
	).Decode(&session)
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

// ListByTrainee returns a trainee's sessions, newest first, optionally
// filtered by status.
func (r *mongoSessionRepository) ListByTrainee(ctx context.Context, traineeID primitive.ObjectID, status *domain.SessionStatus) ([]domain.WorkoutSession, error) {
	sessions := []domain.WorkoutSession{}
	filter := bson.M{"traineeId": traineeID}
	if status != nil {
		filter["status"] = *status
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update writes back the mutable part of a session. Identity, trainee and
// the pinned workout snapshot are never rewritten.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.WorkoutSession) error {
	updateDoc := bson.M{
		"$set": bson.M{
			"status":               session.Status,
			"completedAt":          session.CompletedAt,
			"totalDurationSeconds": session.TotalDurationSeconds,
			"totalVolume":          session.TotalVolume,
			"notes":                session.Notes,
			"rating":               session.Rating,
			"archiveKey":           session.ArchiveKey,
			"updatedAt":            session.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
