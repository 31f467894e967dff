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

const trainingLogCollectionName = "training_logs"

type mongoTrainingLogRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingLogRepository creates a TrainingLog repository backed by MongoDB.
func NewMongoTrainingLogRepository(db *mongo.Database) repository.TrainingLogRepository {
	return &mongoTrainingLogRepository{
		collection: db.Collection(trainingLogCollectionName),
	}
}

// Create stores a log. Date is normalised to its UTC calendar day so the
// unique index sees one key per day.
func (r *mongoTrainingLogRepository) Create(ctx context.Context, log *domain.TrainingLog) (primitive.ObjectID, error) {
	if log.ClientID == primitive.NilObjectID || log.PlanID == primitive.NilObjectID || log.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("log requires clientId, trainerId and planId")
	}
	log.ID = primitive.NewObjectID()
	log.Date = domain.CalendarDay(log.Date)
	log.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

func (r *mongoTrainingLogRepository) FindForDay(ctx context.Context, clientID, planID primitive.ObjectID, dayOfWeek int, window domain.DayWindow) (*domain.TrainingLog, error) {
	var log domain.TrainingLog
	err := r.collection.FindOne(ctx, dayLogFilterDoc(clientID, planID, dayOfWeek, window)).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *mongoTrainingLogRepository) GetByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, clientLogFilterDoc(clientID, window, nil), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []domain.TrainingLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *mongoTrainingLogRepository) CountByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow, completed *bool) (int64, error) {
	return r.collection.CountDocuments(ctx, clientLogFilterDoc(clientID, window, completed))
}

func dayLogFilterDoc(clientID, planID primitive.ObjectID, dayOfWeek int, window domain.DayWindow) bson.M {
	return bson.M{
		"clientId":  clientID,
		"planId":    planID,
		"dayOfWeek": dayOfWeek,
		"date":      bson.M{"$gte": window.Start, "$lt": window.End},
	}
}

func clientLogFilterDoc(clientID primitive.ObjectID, window *domain.DayWindow, completed *bool) bson.M {
	doc := bson.M{"clientId": clientID}
	if window != nil {
		doc["date"] = bson.M{"$gte": window.Start, "$lt": window.End}
	}
	if completed != nil {
		doc["isCompleted"] = *completed
	}
	return doc
}

func trainingLogIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "planId", Value: 1},
				{Key: "dayOfWeek", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("one_log_per_session_day").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
}
