package service

import (
	"alcyxob/fitcoach/internal/domain"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mock repositories
type MockUserRepo struct{ mock.Mock }
type MockPlanRepo struct{ mock.Mock }
type MockLogRepo struct{ mock.Mock }
type MockNotificationRepo struct{ mock.Mock }
type MockDispatcher struct{ mock.Mock }
type MockSigner struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepo) IsClientOfTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, trainerID, clientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	return m.Called(ctx, trainerID, clientID).Error(0)
}

func (m *MockUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	return m.Called(ctx, clientID, trainerID).Error(0)
}

func (m *MockPlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingPlan), args.Error(1)
}

func (m *MockPlanRepo) DeactivateAllForClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanRepo) GetActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingPlan), args.Error(1)
}

func (m *MockPlanRepo) Find(ctx context.Context, filter domain.PlanFilter) ([]domain.TrainingPlan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingPlan), args.Error(1)
}

func (m *MockPlanRepo) FindActiveOn(ctx context.Context, day domain.DayWindow) ([]domain.TrainingPlan, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingPlan), args.Error(1)
}

func (m *MockLogRepo) Create(ctx context.Context, log *domain.TrainingLog) (primitive.ObjectID, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockLogRepo) FindForDay(ctx context.Context, clientID, planID primitive.ObjectID, dayOfWeek int, window domain.DayWindow) (*domain.TrainingLog, error) {
	args := m.Called(ctx, clientID, planID, dayOfWeek, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingLog), args.Error(1)
}

func (m *MockLogRepo) GetByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	args := m.Called(ctx, clientID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingLog), args.Error(1)
}

func (m *MockLogRepo) CountByClient(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow, completed *bool) (int64, error) {
	args := m.Called(ctx, clientID, window, completed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockNotificationRepo) GetByRecipient(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) Delete(ctx context.Context, id, recipientID primitive.ObjectID) error {
	return m.Called(ctx, id, recipientID).Error(0)
}

func (m *MockDispatcher) Dispatch(ctx context.Context, recipientID primitive.ObjectID, alert domain.Alert) error {
	return m.Called(ctx, recipientID, alert).Error(0)
}

func (m *MockSigner) GeneratePresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockSigner) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

// --- fixtures ---

func intPtr(v int) *int { return &v }

func session(day int, exercises int) domain.DaySession {
	s := domain.DaySession{DayOfWeek: day}
	for i := 0; i < exercises; i++ {
		s.Exercises = append(s.Exercises, domain.Exercise{
			Name:  "Squat",
			Sets:  3,
			Reps:  "8-12",
			Order: intPtr(i + 1),
		})
	}
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
