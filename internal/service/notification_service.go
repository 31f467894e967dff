package service

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotificationNotFound = domain.NewError(domain.KindNotFound, "NotificationNotFound", "notification not found")

// NotificationService is the user's inbox over persisted notifications.
type NotificationService interface {
	List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.GetByRecipient(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return notFoundAs(s.repo.MarkRead(ctx, notificationID, userID), ErrNotificationNotFound)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return notFoundAs(s.repo.Delete(ctx, notificationID, userID), ErrNotificationNotFound)
}

func notFoundAs(err error, target *domain.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
