// internal/repository/mongo/training_plan_repo.go
package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.ClientID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires clientId, trainerId, and name")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single training plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetActiveByClient returns the client's single active plan.
func (r *mongoTrainingPlanRepository) GetActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error) {
	return r.findOne(ctx, bson.M{"clientId": clientID, "isActive": true})
}

func (r *mongoTrainingPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// DeactivateAllForClient flips every active plan of the client to inactive,
// regardless of which trainer wrote it.
func (r *mongoTrainingPlanRepository) DeactivateAllForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	filter := bson.M{"clientId": clientID, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Find returns plans matching the filter, newest first.
func (r *mongoTrainingPlanRepository) Find(ctx context.Context, filter domain.PlanFilter) ([]domain.TrainingPlan, error) {
	return r.find(ctx, planFilterDoc(filter))
}

// FindActiveOn returns active plans whose [startDate, endDate] overlaps the day.
func (r *mongoTrainingPlanRepository) FindActiveOn(ctx context.Context, day domain.DayWindow) ([]domain.TrainingPlan, error) {
	return r.find(ctx, activeOnFilterDoc(day))
}

func (r *mongoTrainingPlanRepository) find(ctx context.Context, filter bson.M) ([]domain.TrainingPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.TrainingPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func planFilterDoc(f domain.PlanFilter) bson.M {
	doc := bson.M{}
	if f.TrainerID != nil {
		doc["trainerId"] = *f.TrainerID
	}
	if f.ClientID != nil {
		doc["clientId"] = *f.ClientID
	}
	if f.IsActive != nil {
		doc["isActive"] = *f.IsActive
	}
	if f.DayOfWeek != nil {
		doc["weeklyPlan.dayOfWeek"] = *f.DayOfWeek
	}
	return doc
}

func activeOnFilterDoc(day domain.DayWindow) bson.M {
	return bson.M{
		"isActive":  true,
		"startDate": bson.M{"$lt": day.End},
		"endDate":   bson.M{"$gte": day.Start},
	}
}

func trainingPlanIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// at most one active plan per client
			Keys: bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().
				SetName("one_active_plan_per_client").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "weeklyPlan.dayOfWeek", Value: 1}},
			Options: options.Index(),
		},
	}
}
