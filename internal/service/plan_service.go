package service

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/notify"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound     = domain.NewError(domain.KindNotFound, "ClientNotFound", "client not found")
	ErrNotClientsTrainer  = domain.NewError(domain.KindAuthorization, "NotClientsTrainer", "client is managed by another trainer")
	ErrForbidden          = domain.NewError(domain.KindAuthorization, "Forbidden", "access denied")
	ErrPlanNotFound       = domain.NewError(domain.KindNotFound, "PlanNotFound", "training plan not found")
	ErrActivePlanConflict = domain.NewError(domain.KindConflict, "ActivePlanConflict", "another plan was activated for this client at the same time, retry")
)

// PlanInput is the normalized plan payload produced by the HTTP adapter.
type PlanInput struct {
	ClientID   primitive.ObjectID
	Name       string
	Frequency  int
	StartDate  time.Time
	EndDate    time.Time
	WeeklyPlan []domain.DaySession
}

// PlanQuery carries the optional filters of a plan listing.
type PlanQuery struct {
	ClientID  *primitive.ObjectID
	DayOfWeek *int
}

type PlanService interface {
	CreatePlan(ctx context.Context, trainerID primitive.ObjectID, input PlanInput) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, requester domain.Requester, query PlanQuery) ([]domain.TrainingPlan, error)
	GetActiveWeeklyPlan(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error)
}

type planService struct {
	userRepo   repository.UserRepository
	planRepo   repository.TrainingPlanRepository
	dispatcher notify.Dispatcher
	log        logger.Logger
}

// NewPlanService creates a new instance of planService. The dispatcher may be
// nil, in which case clients are not told about new plans.
func NewPlanService(
	userRepo repository.UserRepository,
	planRepo repository.TrainingPlanRepository,
	dispatcher notify.Dispatcher,
	log logger.Logger,
) PlanService {
	return &planService{
		userRepo:   userRepo,
		planRepo:   planRepo,
		dispatcher: dispatcher,
		log:        log,
	}
}

// CreatePlan validates the payload, makes sure the trainer may write plans for
// the client (claiming an unassigned client on the way), retires the client's
// previous active plans and stores the new one as active.
func (s *planService) CreatePlan(ctx context.Context, trainerID primitive.ObjectID, input PlanInput) (*domain.TrainingPlan, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}

	// 1. Payload rules first, so a bad payload never assigns a client.
	if err := domain.ValidatePlan(domain.PlanDraft{
		Name:       input.Name,
		Frequency:  input.Frequency,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		WeeklyPlan: input.WeeklyPlan,
	}); err != nil {
		return nil, err
	}

	// 2. Resolve client and trainer relationship
	client, err := s.resolveClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTrainerOwnsClient(ctx, trainerID, client); err != nil {
		return nil, err
	}

	// 3. Deactivate, then insert
	deactivated, err := s.planRepo.DeactivateAllForClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	plan := &domain.TrainingPlan{
		TrainerID:  trainerID,
		ClientID:   client.ID,
		Name:       input.Name,
		Frequency:  input.Frequency,
		StartDate:  input.StartDate.UTC(),
		EndDate:    input.EndDate.UTC(),
		WeeklyPlan: orderedSessions(input.WeeklyPlan),
		IsActive:   true,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActivePlanConflict
		}
		return nil, err
	}
	plan.ID = planID

	metrics.RecordPlanCreated()
	s.log.WithFields(map[string]interface{}{
		"plan_id":     planID.Hex(),
		"trainer_id":  trainerID.Hex(),
		"client_id":   client.ID.Hex(),
		"deactivated": deactivated,
	}).Info("training plan created")

	s.announcePlan(ctx, plan)
	return plan, nil
}

func (s *planService) resolveClient(ctx context.Context, clientID primitive.ObjectID) (*domain.User, error) {
	if clientID == primitive.NilObjectID {
		return nil, ErrClientNotFound.WithMessage("client is required")
	}
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotFound.WithMessage("user is not a client")
	}
	return client, nil
}

// ensureTrainerOwnsClient applies first-come-first-assigned: an unassigned
// client is claimed by the trainer, an assigned one must already be theirs.
func (s *planService) ensureTrainerOwnsClient(ctx context.Context, trainerID primitive.ObjectID, client *domain.User) error {
	if client.HasTrainer() {
		if *client.TrainerID != trainerID {
			return ErrNotClientsTrainer
		}
		return nil
	}

	err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID)
	if errors.Is(err, repository.ErrUpdateFailed) {
		// Someone assigned the client in between; re-read to see who won.
		fresh, getErr := s.userRepo.GetByID(ctx, client.ID)
		if getErr != nil {
			return getErr
		}
		if !fresh.HasTrainer() || *fresh.TrainerID != trainerID {
			return ErrNotClientsTrainer
		}
		err = nil
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return err
	}
	client.TrainerID = &trainerID
	s.log.WithFields(map[string]interface{}{
		"trainer_id": trainerID.Hex(),
		"client_id":  client.ID.Hex(),
	}).Info("client assigned to trainer")
	return nil
}

func (s *planService) announcePlan(ctx context.Context, plan *domain.TrainingPlan) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Dispatch(ctx, plan.ClientID, domain.Alert{
		Type:     domain.NotificationPlan,
		Title:    "New training plan",
		Message:  fmt.Sprintf("Your trainer published the plan %q (%d sessions per week).", plan.Name, plan.Frequency),
		Link:     "/client/plan",
		SenderID: &plan.TrainerID,
	})
	if err != nil {
		s.log.Warnf("could not notify client %s about plan %s: %v", plan.ClientID.Hex(), plan.ID.Hex(), err)
	}
}

// ListPlans scopes the lookup by role: clients see their own active plan,
// trainers their own plans (optionally for one of their clients), admins
// anything.
func (s *planService) ListPlans(ctx context.Context, requester domain.Requester, query PlanQuery) ([]domain.TrainingPlan, error) {
	if query.DayOfWeek != nil && (*query.DayOfWeek < 0 || *query.DayOfWeek > 6) {
		return nil, domain.ErrDayOutOfRange
	}

	filter := domain.PlanFilter{DayOfWeek: query.DayOfWeek}
	switch requester.Role {
	case domain.RoleClient:
		active := true
		filter.ClientID = &requester.ID
		filter.IsActive = &active
	case domain.RoleTrainer:
		filter.TrainerID = &requester.ID
		if query.ClientID != nil {
			ok, err := s.userRepo.IsClientOfTrainer(ctx, requester.ID, *query.ClientID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrForbidden.WithMessage("client does not belong to this trainer")
			}
			filter.ClientID = query.ClientID
		}
	case domain.RoleAdmin:
		filter.ClientID = query.ClientID
	default:
		return nil, ErrForbidden
	}

	return s.planRepo.Find(ctx, filter)
}

func (s *planService) GetActiveWeeklyPlan(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound.WithMessage("no active training plan")
		}
		return nil, err
	}
	return plan, nil
}

// orderedSessions sorts sessions by weekday and each session's exercises by
// their order field. Input must already be validated.
func orderedSessions(in []domain.DaySession) []domain.DaySession {
	out := make([]domain.DaySession, len(in))
	for i, s := range in {
		ex := make([]domain.Exercise, len(s.Exercises))
		copy(ex, s.Exercises)
		sort.SliceStable(ex, func(a, b int) bool { return *ex[a].Order < *ex[b].Order })
		out[i] = domain.DaySession{DayOfWeek: s.DayOfWeek, Exercises: ex}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DayOfWeek < out[b].DayOfWeek })
	return out
}
