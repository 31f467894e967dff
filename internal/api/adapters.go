package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The web client has sent several shapes for the same payloads over time.
// Everything is normalized here so the services only ever see one input type.

// flexString accepts a JSON string or number ("reps": 10 or "reps": "8-12").
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// flexBool accepts true/false or their string forms, as sent by form posts.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected boolean, got %s", b)
	}
	*f = flexBool(v)
	return nil
}

type ExerciseRequest struct {
	Name         string     `json:"name"`
	Sets         int        `json:"sets"`
	Reps         flexString `json:"reps"`
	Instructions string     `json:"instructions"`
	VideoURL     string     `json:"videoUrl"`
	Order        *int       `json:"order"`
}

type DaySessionRequest struct {
	DayOfWeek *int              `json:"dayOfWeek"`
	Exercises []ExerciseRequest `json:"exercises"`
}

// PlanRequest is the plan creation body. The client may be named by "client"
// or "clientId". "trainer"/"trainerId" are accepted but ignored: the trainer
// is always the authenticated user.
type PlanRequest struct {
	Client     string              `json:"client"`
	ClientID   string              `json:"clientId"`
	Trainer    string              `json:"trainer"`
	TrainerID  string              `json:"trainerId"`
	Name       string              `json:"name"`
	Frequency  int                 `json:"frequency"`
	StartDate  string              `json:"startDate"`
	EndDate    string              `json:"endDate"`
	WeeklyPlan []DaySessionRequest `json:"weeklyPlan"`
}

// LogRequest is the check-in body.
type LogRequest struct {
	Date               string   `json:"date"`
	IsCompleted        flexBool `json:"isCompleted"`
	Reason             string   `json:"reason"`
	ReasonNotCompleted string   `json:"reasonNotCompleted"`
	ProofImage         string   `json:"proofImage"`
	ProofImageURL      string   `json:"proofImageURL"`
	PlanID             string   `json:"planId"`
	WorkoutID          *int     `json:"workoutId"`
	DayOfWeek          *int     `json:"dayOfWeek"`
	Notes              string   `json:"notes"`
	Duration           *int     `json:"duration"`
}

// ToPlanInput normalizes a PlanRequest.
func ToPlanInput(req PlanRequest) (service.PlanInput, error) {
	clientHex := firstNonEmpty(req.ClientID, req.Client)
	if clientHex == "" {
		return service.PlanInput{}, ErrBadPayload.WithMessage("client is required")
	}
	clientID, err := primitive.ObjectIDFromHex(clientHex)
	if err != nil {
		return service.PlanInput{}, ErrBadPayload.WithMessage("invalid client ID format")
	}

	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return service.PlanInput{}, err
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		return service.PlanInput{}, err
	}

	sessions := make([]domain.DaySession, len(req.WeeklyPlan))
	for i, s := range req.WeeklyPlan {
		if s.DayOfWeek == nil {
			return service.PlanInput{}, ErrBadPayload.WithMessage(fmt.Sprintf("weeklyPlan[%d].dayOfWeek is required", i))
		}
		exercises := make([]domain.Exercise, len(s.Exercises))
		for j, e := range s.Exercises {
			exercises[j] = domain.Exercise{
				Name:         strings.TrimSpace(e.Name),
				Sets:         e.Sets,
				Reps:         strings.TrimSpace(string(e.Reps)),
				Instructions: strings.TrimSpace(e.Instructions),
				VideoURL:     strings.TrimSpace(e.VideoURL),
				Order:        e.Order,
			}
		}
		sessions[i] = domain.DaySession{DayOfWeek: *s.DayOfWeek, Exercises: exercises}
	}

	return service.PlanInput{
		ClientID:   clientID,
		Name:       strings.TrimSpace(req.Name),
		Frequency:  req.Frequency,
		StartDate:  start,
		EndDate:    end,
		WeeklyPlan: sessions,
	}, nil
}

// ToLogInput normalizes a LogRequest.
func ToLogInput(req LogRequest) (service.LogInput, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return service.LogInput{}, err
	}

	in := service.LogInput{
		Date:            date,
		IsCompleted:     bool(req.IsCompleted),
		Reason:          firstNonEmpty(req.Reason, req.ReasonNotCompleted),
		ProofImage:      firstNonEmpty(req.ProofImage, req.ProofImageURL),
		Notes:           req.Notes,
		DurationMinutes: req.Duration,
	}

	if req.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			return service.LogInput{}, ErrBadPayload.WithMessage("invalid plan ID format")
		}
		in.PlanID = &id
	}

	switch {
	case req.DayOfWeek != nil:
		in.DayOfWeek = req.DayOfWeek
	case req.WorkoutID != nil:
		in.DayOfWeek = req.WorkoutID
	}

	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		return service.LogInput{}, ErrBadPayload.WithMessage("duration cannot be negative")
	}
	return in, nil
}

// parseDate accepts a bare calendar date or a full RFC 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadPayload.WithMessage(field + " is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadPayload.WithMessage(fmt.Sprintf("%s must be YYYY-MM-DD or RFC 3339", field))
}

// parseLogWindow reads ?year=&month= or ?from=&to= (inclusive days). With
// neither it returns defaultWindow.
func parseLogWindow(year, month, from, to string, defaultWindow *domain.DayWindow) (*domain.DayWindow, error) {
	switch {
	case year != "" || month != "":
		y, errY := strconv.Atoi(year)
		m, errM := strconv.Atoi(month)
		if errY != nil || errM != nil || m < 1 || m > 12 {
			return nil, ErrBadPayload.WithMessage("year and month must be given together, month 1-12")
		}
		w := domain.MonthWindow(y, time.Month(m))
		return &w, nil
	case from != "" || to != "":
		start, err := parseDate("from", from)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("to", to)
		if err != nil {
			return nil, err
		}
		w := domain.DayWindow{Start: domain.CalendarDay(start), End: domain.CalendarDay(end).AddDate(0, 0, 1)}
		if !w.Start.Before(w.End) {
			return nil, ErrBadPayload.WithMessage("from must not be after to")
		}
		return &w, nil
	default:
		return defaultWindow, nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
