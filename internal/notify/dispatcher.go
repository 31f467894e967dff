// Package notify delivers alerts to users: a persisted inbox record first,
// then a best-effort real-time push over Redis pub/sub.
package notify

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const channelPrefix = "notifications:"

// Dispatcher is the notification sink used by the services.
type Dispatcher interface {
	// Dispatch stores the alert for the recipient and tries to push it live.
	// It only fails when the notification could not be stored.
	Dispatch(ctx context.Context, recipientID primitive.ObjectID, alert domain.Alert) error
}

type dispatcher struct {
	repo  repository.NotificationRepository
	redis *redis.Client
	log   logger.Logger
}

// NewDispatcher wires the inbox repository and the Redis client. A nil client
// disables the real-time push.
func NewDispatcher(repo repository.NotificationRepository, rdb *redis.Client, log logger.Logger) Dispatcher {
	return &dispatcher{repo: repo, redis: rdb, log: log}
}

// ChannelFor is the pub/sub channel a user's live connection subscribes to.
func ChannelFor(userID primitive.ObjectID) string {
	return channelPrefix + userID.Hex()
}

func (d *dispatcher) Dispatch(ctx context.Context, recipientID primitive.ObjectID, alert domain.Alert) error {
	n := &domain.Notification{
		RecipientID: recipientID,
		SenderID:    alert.SenderID,
		Type:        alert.Type,
		Title:       alert.Title,
		Message:     alert.Message,
		Link:        alert.Link,
	}
	id, err := d.repo.Create(ctx, n)
	if err != nil {
		metrics.RecordDispatchFailure("persist")
		return domain.ErrDispatchFailed.Wrap(err)
	}
	n.ID = id

	d.publish(ctx, n)
	return nil
}

func (d *dispatcher) publish(ctx context.Context, n *domain.Notification) {
	if d.redis == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		d.log.Warnf("notify: encode notification %s: %v", n.ID.Hex(), err)
		return
	}
	if err := d.redis.Publish(ctx, ChannelFor(n.RecipientID), payload).Err(); err != nil {
		metrics.RecordDispatchFailure("publish")
		d.log.WithFields(map[string]interface{}{
			"recipient_id":    n.RecipientID.Hex(),
			"notification_id": n.ID.Hex(),
		}).Warnf("notify: real-time push failed: %v", err)
	}
}
