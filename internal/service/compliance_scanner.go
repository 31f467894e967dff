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
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScanModeToday  = "today"
	ScanModeMissed = "missed"

	complianceLink = "/trainer/clients"
)

// Outcome is how a client answered one scheduled session.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeMissed    Outcome = "missed"
	OutcomeUnmarked  Outcome = "unmarked"
)

// ScanResult is what a sweep reports back. Notifications that failed to
// dispatch are counted separately and never abort the sweep.
type ScanResult struct {
	NotificationsCreated int `json:"notificationsCreated"`
	DispatchFailures     int `json:"dispatchFailures"`
}

// SessionOutcome is the classification of one plan's session on the reference day.
type SessionOutcome struct {
	Plan    domain.TrainingPlan
	Outcome Outcome
	Reason  string
}

type ComplianceScanner interface {
	// ScanToday sends every trainer one summary of today's sessions.
	ScanToday(ctx context.Context) (ScanResult, error)
	// ScanMissedYesterday sends one alert per session nobody logged yesterday.
	ScanMissedYesterday(ctx context.Context) (ScanResult, error)
	// Classify reports the outcome of every session scheduled on the day.
	Classify(ctx context.Context, day time.Time) ([]SessionOutcome, error)
}

type complianceScanner struct {
	planRepo   repository.TrainingPlanRepository
	logRepo    repository.TrainingLogRepository
	userRepo   repository.UserRepository
	dispatcher notify.Dispatcher
	log        logger.Logger
	now        func() time.Time
}

func NewComplianceScanner(
	planRepo repository.TrainingPlanRepository,
	logRepo repository.TrainingLogRepository,
	userRepo repository.UserRepository,
	dispatcher notify.Dispatcher,
	log logger.Logger,
) ComplianceScanner {
	return &complianceScanner{
		planRepo:   planRepo,
		logRepo:    logRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

func (s *complianceScanner) Classify(ctx context.Context, day time.Time) ([]SessionOutcome, error) {
	window := domain.WindowFor(day)
	dayOfWeek := domain.Weekday(window.Start)

	plans, err := s.planRepo.FindActiveOn(ctx, window)
	if err != nil {
		return nil, err
	}

	var outcomes []SessionOutcome
	for _, plan := range plans {
		if !plan.CoversDay(window.Start) {
			continue
		}
		if _, ok := plan.SessionOn(dayOfWeek); !ok {
			continue // rest day
		}

		entry, err := s.logRepo.FindForDay(ctx, plan.ClientID, plan.ID, dayOfWeek, window)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			outcomes = append(outcomes, SessionOutcome{Plan: plan, Outcome: OutcomeUnmarked})
		case err != nil:
			return nil, err
		case entry.IsCompleted:
			outcomes = append(outcomes, SessionOutcome{Plan: plan, Outcome: OutcomeCompleted})
		default:
			outcomes = append(outcomes, SessionOutcome{Plan: plan, Outcome: OutcomeMissed, Reason: reasonOrDefault(entry.Reason)})
		}
	}
	return outcomes, nil
}

func (s *complianceScanner) ScanMissedYesterday(ctx context.Context) (ScanResult, error) {
	yesterday := domain.CalendarDay(s.now()).AddDate(0, 0, -1)
	log := s.log.WithFields(map[string]interface{}{"mode": ScanModeMissed, "day": yesterday.Format("2006-01-02")})

	outcomes, err := s.Classify(ctx, yesterday)
	if err != nil {
		return ScanResult{}, err
	}

	var unmarked []SessionOutcome
	for _, o := range outcomes {
		if o.Outcome == OutcomeUnmarked {
			unmarked = append(unmarked, o)
		}
	}
	names := s.clientNames(ctx, unmarked)

	var result ScanResult
	for _, o := range unmarked {
		clientID := o.Plan.ClientID
		alert := domain.Alert{
			Type:  domain.NotificationAlert,
			Title: "Workout not logged",
			Message: fmt.Sprintf("%s did not log the workout of %s. The client may have forgotten to mark it.",
				names[clientID], yesterday.Format("2006-01-02")),
			Link:     complianceLink,
			SenderID: &clientID,
		}
		if err := s.dispatcher.Dispatch(ctx, o.Plan.TrainerID, alert); err != nil {
			result.DispatchFailures++
			log.Warnf("alert for client %s to trainer %s failed: %v", clientID.Hex(), o.Plan.TrainerID.Hex(), err)
			continue
		}
		result.NotificationsCreated++
	}

	metrics.RecordScanNotifications(ScanModeMissed, result.NotificationsCreated)
	log.Infof("missed-workout scan done: %d notifications, %d failures", result.NotificationsCreated, result.DispatchFailures)
	return result, nil
}

// trainerDigest groups one trainer's clients by outcome, in scan order.
type trainerDigest struct {
	completed []string
	missed    []string
	unmarked  []string
}

func (d *trainerDigest) message() string {
	var parts []string
	if len(d.completed) > 0 {
		parts = append(parts, fmt.Sprintf("Completed (%d): %s", len(d.completed), strings.Join(d.completed, ", ")))
	}
	if len(d.missed) > 0 {
		parts = append(parts, fmt.Sprintf("Not completed (%d): %s", len(d.missed), strings.Join(d.missed, "; ")))
	}
	if len(d.unmarked) > 0 {
		parts = append(parts, fmt.Sprintf("Not marked (%d): %s", len(d.unmarked), strings.Join(d.unmarked, ", ")))
	}
	return strings.Join(parts, " | ")
}

func (s *complianceScanner) ScanToday(ctx context.Context) (ScanResult, error) {
	today := domain.CalendarDay(s.now())
	log := s.log.WithFields(map[string]interface{}{"mode": ScanModeToday, "day": today.Format("2006-01-02")})

	outcomes, err := s.Classify(ctx, today)
	if err != nil {
		return ScanResult{}, err
	}
	names := s.clientNames(ctx, outcomes)

	digests := make(map[primitive.ObjectID]*trainerDigest)
	var trainers []primitive.ObjectID
	for _, o := range outcomes {
		d, ok := digests[o.Plan.TrainerID]
		if !ok {
			d = &trainerDigest{}
			digests[o.Plan.TrainerID] = d
			trainers = append(trainers, o.Plan.TrainerID)
		}
		name := names[o.Plan.ClientID]
		switch o.Outcome {
		case OutcomeCompleted:
			d.completed = append(d.completed, name)
		case OutcomeMissed:
			d.missed = append(d.missed, fmt.Sprintf("%s (%s)", name, o.Reason))
		default:
			d.unmarked = append(d.unmarked, name)
		}
	}
	sort.Slice(trainers, func(i, j int) bool { return trainers[i].Hex() < trainers[j].Hex() })

	var result ScanResult
	for _, trainerID := range trainers {
		msg := digests[trainerID].message()
		if msg == "" {
			continue
		}
		alert := domain.Alert{
			Type:    domain.NotificationAlert,
			Title:   "Workout summary - " + today.Format("2006-01-02"),
			Message: msg,
			Link:    complianceLink,
		}
		if err := s.dispatcher.Dispatch(ctx, trainerID, alert); err != nil {
			result.DispatchFailures++
			log.Warnf("summary for trainer %s failed: %v", trainerID.Hex(), err)
			continue
		}
		result.NotificationsCreated++
	}

	metrics.RecordScanNotifications(ScanModeToday, result.NotificationsCreated)
	log.Infof("daily summary scan done: %d notifications, %d failures", result.NotificationsCreated, result.DispatchFailures)
	return result, nil
}

// clientNames loads display names for the clients in one query. A failed
// lookup degrades to "Client <id>" rather than failing the sweep.
func (s *complianceScanner) clientNames(ctx context.Context, outcomes []SessionOutcome) map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string, len(outcomes))
	ids := make([]primitive.ObjectID, 0, len(outcomes))
	for _, o := range outcomes {
		if _, seen := names[o.Plan.ClientID]; seen {
			continue
		}
		names[o.Plan.ClientID] = "Client " + o.Plan.ClientID.Hex()
		ids = append(ids, o.Plan.ClientID)
	}
	if len(ids) == 0 {
		return names
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warnf("could not load client names: %v", err)
		return names
	}
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names
}
