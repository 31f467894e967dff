package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	minPlanDuration = 7 * 24 * time.Hour
	maxPlanDuration = 365 * 24 * time.Hour
)

var exerciseValidate = validator.New(validator.WithRequiredStructEnabled())

// PlanDraft is the part of a plan payload that ValidatePlan inspects.
type PlanDraft struct {
	Name       string
	Frequency  int
	StartDate  time.Time
	EndDate    time.Time
	WeeklyPlan []DaySession
}

// ValidatePlan checks a draft rule by rule and returns the first violation as
// an *Error of KindValidation, or nil. It has no side effects.
func ValidatePlan(d PlanDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}

	if d.Frequency < 3 || d.Frequency > 5 {
		return ErrInvalidFrequency.WithMessage(
			fmt.Sprintf("frequency must be 3, 4 or 5, got %d", d.Frequency))
	}

	if len(d.WeeklyPlan) != d.Frequency {
		return ErrDayCountMismatch.WithMessage(
			fmt.Sprintf("frequency is %d but weeklyPlan has %d days", d.Frequency, len(d.WeeklyPlan)))
	}

	seen := make(map[int]struct{}, len(d.WeeklyPlan))
	for _, s := range d.WeeklyPlan {
		if _, dup := seen[s.DayOfWeek]; dup {
			return ErrDuplicateDay.WithMessage(
				fmt.Sprintf("dayOfWeek %d appears more than once", s.DayOfWeek))
		}
		seen[s.DayOfWeek] = struct{}{}
	}

	for _, s := range d.WeeklyPlan {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			return ErrDayOutOfRange.WithMessage(
				fmt.Sprintf("dayOfWeek %d is outside 0-6", s.DayOfWeek))
		}
	}

	for _, s := range d.WeeklyPlan {
		if err := validateSession(s); err != nil {
			return err
		}
	}

	if !d.StartDate.Before(d.EndDate) {
		return ErrDateOrderInvalid
	}

	span := d.EndDate.Sub(d.StartDate)
	if span < minPlanDuration {
		return ErrDurationTooShort
	}
	if span > maxPlanDuration {
		return ErrDurationTooLong
	}

	return nil
}

func validateSession(s DaySession) error {
	if len(s.Exercises) == 0 || len(s.Exercises) > MaxExercisesPerSession {
		return ErrInvalidExercise.WithMessage(
			fmt.Sprintf("day %d must have between 1 and %d exercises, got %d",
				s.DayOfWeek, MaxExercisesPerSession, len(s.Exercises)))
	}
	for i, ex := range s.Exercises {
		// reps is free-form text, whitespace only counts as empty
		ex.Reps = strings.TrimSpace(ex.Reps)
		ex.Name = strings.TrimSpace(ex.Name)
		if err := exerciseValidate.Struct(ex); err != nil {
			return ErrInvalidExercise.WithMessage(
				fmt.Sprintf("day %d, exercise %d: %s", s.DayOfWeek, i+1, describeFieldError(err)))
		}
	}
	return nil
}

func describeFieldError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return "name is required"
	case "Sets":
		return "sets must be at least 1"
	case "Reps":
		return "reps is required"
	case "Order":
		return "order is required"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
