package service

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/notify"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrDuplicateLog     = domain.NewError(domain.KindConflict, "DuplicateLog", "this session was already logged for that day")
	ErrLogDayMismatch   = domain.NewError(domain.KindValidation, "LogDayMismatch", "dayOfWeek does not match the date")
	ErrLogOutsidePlan   = domain.NewError(domain.KindValidation, "LogOutsidePlan", "date is outside the plan's date range")
	ErrNoSessionThatDay = domain.NewError(domain.KindValidation, "NoSessionThatDay", "the plan has no session on that day")
	ErrLogInFuture      = domain.NewError(domain.KindValidation, "LogInFuture", "cannot log a session in the future")
	ErrLogDateRequired  = domain.NewError(domain.KindValidation, "LogDateRequired", "date is required")

	ErrInvalidProofType       = domain.NewError(domain.KindValidation, "InvalidProofType", "proof image must be jpeg, png, webp or heic")
	ErrProofUploadUnavailable = domain.NewError(domain.KindValidation, "ProofUploadUnavailable", "proof image uploads are not configured")
)

// ProofUpload is a presigned PUT target. ObjectKey is what the client later
// sends back as proofImage.
type ProofUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// LogInput is the normalized check-in payload produced by the HTTP adapter.
type LogInput struct {
	Date            time.Time
	IsCompleted     bool
	Reason          string
	ProofImage      string
	PlanID          *primitive.ObjectID
	DayOfWeek       *int
	Notes           string
	DurationMinutes *int
}

type LogService interface {
	CreateLog(ctx context.Context, clientID primitive.ObjectID, input LogInput) (*domain.TrainingLog, error)
	GetClientLogs(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error)
	GetClientStats(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) (domain.LogStats, error)
	GetLogsForClient(ctx context.Context, trainerID, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error)
	RequestProofUpload(ctx context.Context, clientID primitive.ObjectID, contentType string) (*ProofUpload, error)
}

type logService struct {
	userRepo   repository.UserRepository
	planRepo   repository.TrainingPlanRepository
	logRepo    repository.TrainingLogRepository
	dispatcher notify.Dispatcher
	signer     storage.ProofURLSigner
	log        logger.Logger
	now        func() time.Time
}

// NewLogService creates the check-in service. signer may be nil when no
// object storage is configured; proof references are then returned as stored.
func NewLogService(
	userRepo repository.UserRepository,
	planRepo repository.TrainingPlanRepository,
	logRepo repository.TrainingLogRepository,
	dispatcher notify.Dispatcher,
	signer storage.ProofURLSigner,
	log logger.Logger,
) LogService {
	return &logService{
		userRepo:   userRepo,
		planRepo:   planRepo,
		logRepo:    logRepo,
		dispatcher: dispatcher,
		signer:     signer,
		log:        log,
		now:        time.Now,
	}
}

// CreateLog records the client's outcome for one scheduled session. The target
// plan is the one named in the input or else the client's active plan.
func (s *logService) CreateLog(ctx context.Context, clientID primitive.ObjectID, input LogInput) (*domain.TrainingLog, error) {
	if input.Date.IsZero() {
		return nil, ErrLogDateRequired
	}
	day := domain.CalendarDay(input.Date)
	if day.After(domain.CalendarDay(s.now())) {
		return nil, ErrLogInFuture
	}

	dayOfWeek := domain.Weekday(day)
	if input.DayOfWeek != nil && *input.DayOfWeek != dayOfWeek {
		return nil, ErrLogDayMismatch.WithMessage(
			fmt.Sprintf("dayOfWeek %d does not match %s (%s)", *input.DayOfWeek, day.Format("2006-01-02"), day.Weekday()))
	}

	plan, err := s.planForLog(ctx, clientID, input.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.CoversDay(day) {
		return nil, ErrLogOutsidePlan
	}
	if _, ok := plan.SessionOn(dayOfWeek); !ok {
		return nil, ErrNoSessionThatDay.WithMessage(
			fmt.Sprintf("the plan has no session on %s", day.Weekday()))
	}

	_, err = s.logRepo.FindForDay(ctx, clientID, plan.ID, dayOfWeek, domain.WindowFor(day))
	if err == nil {
		return nil, ErrDuplicateLog
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	entry := &domain.TrainingLog{
		ClientID:        clientID,
		TrainerID:       plan.TrainerID,
		PlanID:          plan.ID,
		DayOfWeek:       dayOfWeek,
		Date:            day,
		IsCompleted:     input.IsCompleted,
		ProofImage:      strings.TrimSpace(input.ProofImage),
		Notes:           strings.TrimSpace(input.Notes),
		DurationMinutes: input.DurationMinutes,
	}
	if !input.IsCompleted {
		entry.Reason = strings.TrimSpace(input.Reason)
	}

	id, err := s.logRepo.Create(ctx, entry)
	if err != nil {
		// lost the race against a concurrent submission
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateLog
		}
		return nil, err
	}
	entry.ID = id
	metrics.RecordTrainingLog(entry.IsCompleted)

	if !entry.IsCompleted {
		s.notifyMissed(ctx, entry)
	}
	return entry, nil
}

func (s *logService) planForLog(ctx context.Context, clientID primitive.ObjectID, planID *primitive.ObjectID) (*domain.TrainingPlan, error) {
	if planID == nil {
		plan, err := s.planRepo.GetActiveByClient(ctx, clientID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound.WithMessage("no active training plan")
		}
		return plan, err
	}

	plan, err := s.planRepo.GetByID(ctx, *planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.ClientID != clientID {
		return nil, ErrForbidden.WithMessage("plan does not belong to this client")
	}
	return plan, nil
}

// notifyMissed tells the trainer right away. Failures only get logged.
func (s *logService) notifyMissed(ctx context.Context, entry *domain.TrainingLog) {
	if s.dispatcher == nil {
		return
	}
	name := "Your client"
	if client, err := s.userRepo.GetByID(ctx, entry.ClientID); err == nil {
		name = client.DisplayName()
	}
	err := s.dispatcher.Dispatch(ctx, entry.TrainerID, domain.Alert{
		Type:     domain.NotificationMissedWorkout,
		Title:    "Workout not completed",
		Message:  fmt.Sprintf("%s did not complete the %s workout: %s", name, entry.Date.Format("2006-01-02"), reasonOrDefault(entry.Reason)),
		Link:     fmt.Sprintf("/trainer/clients/%s/logs", entry.ClientID.Hex()),
		SenderID: &entry.ClientID,
	})
	if err != nil {
		s.log.Warnf("could not notify trainer %s about missed workout: %v", entry.TrainerID.Hex(), err)
	}
}

func (s *logService) GetClientLogs(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	return s.logRepo.GetByClient(ctx, clientID, window)
}

func (s *logService) GetClientStats(ctx context.Context, clientID primitive.ObjectID, window *domain.DayWindow) (domain.LogStats, error) {
	total, err := s.logRepo.CountByClient(ctx, clientID, window, nil)
	if err != nil {
		return domain.LogStats{}, err
	}
	completedFlag := true
	completed, err := s.logRepo.CountByClient(ctx, clientID, window, &completedFlag)
	if err != nil {
		return domain.LogStats{}, err
	}
	return domain.NewLogStats(total, completed, total-completed), nil
}

// GetLogsForClient is the trainer's view of a client's check-ins. Proof images
// stored as bucket keys come back as short-lived download links.
func (s *logService) GetLogsForClient(ctx context.Context, trainerID, clientID primitive.ObjectID, window *domain.DayWindow) ([]domain.TrainingLog, error) {
	ok, err := s.userRepo.IsClientOfTrainer(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden.WithMessage("client does not belong to this trainer")
	}

	logs, err := s.logRepo.GetByClient(ctx, clientID, window)
	if err != nil {
		return nil, err
	}
	if s.signer == nil {
		return logs, nil
	}
	for i := range logs {
		if !storage.IsObjectKey(logs[i].ProofImage) {
			continue
		}
		url, err := s.signer.GeneratePresignedDownloadURL(ctx, logs[i].ProofImage, storage.DefaultPresignedURLExpiry)
		if err != nil {
			s.log.Warnf("proof image for log %s left unsigned: %v", logs[i].ID.Hex(), err)
			continue
		}
		logs[i].ProofImage = url
	}
	return logs, nil
}

// RequestProofUpload issues a presigned URL under proofs/<client>/ for the
// client to PUT a proof image to.
func (s *logService) RequestProofUpload(ctx context.Context, clientID primitive.ObjectID, contentType string) (*ProofUpload, error) {
	if s.signer == nil {
		return nil, ErrProofUploadUnavailable
	}
	ext, ok := storage.ProofExtension(contentType)
	if !ok {
		return nil, ErrInvalidProofType
	}

	objectKey := path.Join("proofs", clientID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	url, err := s.signer.GeneratePresignedUploadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign proof upload: %w", err)
	}
	return &ProofUpload{
		UploadURL: url,
		ObjectKey: objectKey,
		ExpiresIn: int(storage.DefaultPresignedURLExpiry / time.Second),
	}, nil
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "not specified"
	}
	return reason
}
