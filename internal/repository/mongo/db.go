package mongo

import (
	"alcyxob/fitcoach/internal/logger"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// pings the primary before returning.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every repository relies on. The unique
// indexes on training_plans and training_logs back the one-active-plan and
// one-log-per-day rules, so failures here are logged loudly.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log logger.Logger) {
	steps := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{userCollectionName, userIndexes()},
		{trainingPlanCollectionName, trainingPlanIndexes()},
		{trainingLogCollectionName, trainingLogIndexes()},
		{notificationCollectionName, notificationIndexes()},
	}
	for _, s := range steps {
		if _, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.models); err != nil {
			log.Errorf("failed to create indexes for collection %s: %v", s.collection, err)
		}
	}
}
