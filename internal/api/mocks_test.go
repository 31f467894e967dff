package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthService struct{ mock.Mock }
type MockPlanService struct{ mock.Mock }
type MockLogService struct{ mock.Mock }
type MockScanner struct{ mock.Mock }
type MockNotificationService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthService) GetJWTSecret() string { return testSecret }

func (m *MockPlanService) CreatePlan(ctx context.Context, trainerID primitive.ObjectID, input service.PlanInput) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, trainerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingPlan), args.Error(1)
}

func (m *MockPlanService) ListPlans(ctx context.Context, requester domain.Requester, query service.PlanQuery) ([]domain.TrainingPlan, error) {
	args := m.Called(ctx, requester, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingPlan), args.Error(1)
}

func (m *MockPlanService) GetActiveWeeklyPlan(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingPlan), args.Error(1)
}

func (m *MockLogService) CreateLog(ctx context.Context, clientID primitive.ObjectID, input service.LogInput) (*domain.TrainingLog, error) {
	args := m.Called(ctx, clientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainingLog), args.Error(1)
}

func (m *MockLogService) GetClientLogs(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	args := m.Called(ctx, clientID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingLog), args.Error(1)
}

func (m *MockLogService) GetClientStats(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) (domain.LogStats, error) {
	args := m.Called(ctx, clientID, window)
	return args.Get(0).(domain.LogStats), args.Error(1)
}

func (m *MockLogService) GetLogsForClient(ctx context.Context, trainerID, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	args := m.Called(ctx, trainerID, clientID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrainingLog), args.Error(1)
}

func (m *MockLogService) RequestProofUpload(ctx context.Context, clientID primitive.ObjectID, contentType string) (*service.ProofUpload, error) {
	args := m.Called(ctx, clientID, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProofUpload), args.Error(1)
}

func (m *MockScanner) ScanToday(ctx context.Context) (service.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.ScanResult), args.Error(1)
}

func (m *MockScanner) ScanMissedYesterday(ctx context.Context) (service.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.ScanResult), args.Error(1)
}

func (m *MockScanner) Classify(ctx context.Context, day time.Time) ([]service.SessionOutcome, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SessionOutcome), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) Delete(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

// testServer wires every handler against mocks.
type testServer struct {
	router        *gin.Engine
	auth          *MockAuthService
	plans         *MockPlanService
	logs          *MockLogService
	scanner       *MockScanner
	notifications *MockNotificationService
}

func newTestServer() *testServer {
	ts := &testServer{
		router:        gin.New(),
		auth:          new(MockAuthService),
		plans:         new(MockPlanService),
		logs:          new(MockLogService),
		scanner:       new(MockScanner),
		notifications: new(MockNotificationService),
	}
	SetupRoutes(ts.router, testSecret, Services{
		Auth:          ts.auth,
		Plans:         ts.plans,
		Logs:          ts.logs,
		Scanner:       ts.scanner,
		Notifications: ts.notifications,
	})
	return ts
}

func (ts *testServer) assertExpectations(t *testing.T) {
	ts.auth.AssertExpectations(t)
	ts.plans.AssertExpectations(t)
	ts.logs.AssertExpectations(t)
	ts.scanner.AssertExpectations(t)
	ts.notifications.AssertExpectations(t)
}

// do sends a request; token may be empty for anonymous calls.
func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func signToken(t *testing.T, secret string, userID primitive.ObjectID, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &service.Claims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    service.TokenIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, role domain.Role) (primitive.ObjectID, string) {
	id := primitive.NewObjectID()
	return id, signToken(t, testSecret, id, role, time.Hour)
}
