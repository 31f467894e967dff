package repository

import (
	"alcyxob/fitcoach/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository is the user directory the services consult.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	IsClientOfTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) (bool, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	// SetTrainerForClient only succeeds while the client has no trainer; it
	// returns ErrUpdateFailed when another trainer got there first.
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// TrainingPlanRepository persists weekly plans.
type TrainingPlanRepository interface {
	// Create returns ErrDuplicate when the client already has an active plan.
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	DeactivateAllForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
	GetActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error)
	// Find returns matching plans, newest first.
	Find(ctx context.Context, filter domain.PlanFilter) ([]domain.TrainingPlan, error)
	// FindActiveOn returns active plans whose date range covers the given day.
	FindActiveOn(ctx context.Context, day domain.DayWindow) ([]domain.TrainingPlan, error)
}

// TrainingLogRepository persists client check-ins.
type TrainingLogRepository interface {
	// Create returns ErrDuplicate when a log already exists for the same
	// client, plan, dayOfWeek and calendar day.
	Create(ctx context.Context, log *domain.TrainingLog) (primitive.ObjectID, error)
	FindForDay(ctx context.Context, clientID, planID primitive.ObjectID, dayOfWeek int, window domain.DayWindow) (*domain.TrainingLog, error)
	// GetByClient returns logs newest first. A nil window means all time.
	GetByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error)
	CountByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow, completed *bool) (int64, error)
}

// NotificationRepository is the persistent inbox behind the notification sink.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error)
	GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, recipientID primitive.ObjectID) error
}
