package service

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationService(t *testing.T) {
	user := primitive.NewObjectID()
	id := primitive.NewObjectID()

	t.Run("list unread", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		repo.On("GetByRecipient", mock.Anything, user, true).Return([]domain.Notification{{Title: "x"}}, nil)

		got, err := NewNotificationService(repo).List(context.Background(), user, true)

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("mark read of someone else's notification", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		repo.On("MarkRead", mock.Anything, id, user).Return(repository.ErrNotFound)

		err := NewNotificationService(repo).MarkRead(context.Background(), user, id)

		assert.ErrorIs(t, err, ErrNotificationNotFound)
	})

	t.Run("delete passes store errors through", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		storeErr := errors.New("timeout")
		repo.On("Delete", mock.Anything, id, user).Return(storeErr)

		err := NewNotificationService(repo).Delete(context.Background(), user, id)

		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, domain.ErrorKind(""), domain.KindOf(err))
	})

	t.Run("mark all read", func(t *testing.T) {
		repo := new(MockNotificationRepo)
		repo.On("MarkAllRead", mock.Anything, user).Return(int64(4), nil)

		n, err := NewNotificationService(repo).MarkAllRead(context.Background(), user)

		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})
}
