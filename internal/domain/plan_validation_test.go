package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func session(day int) DaySession {
	return DaySession{
		DayOfWeek: day,
		Exercises: []Exercise{{Name: "Squat", Sets: 3, Reps: "8-12", Order: intPtr(1)}},
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func validDraft() PlanDraft {
	return PlanDraft{
		Name:       "Phase 1",
		Frequency:  3,
		StartDate:  date("2025-01-01"),
		EndDate:    date("2025-02-01"),
		WeeklyPlan: []DaySession{session(1), session(3), session(5)},
	}
}

func TestValidatePlan_Valid(t *testing.T) {
	assert.NoError(t, ValidatePlan(validDraft()))

	d := validDraft()
	d.Frequency = 5
	d.WeeklyPlan = []DaySession{session(0), session(1), session(2), session(3), session(6)}
	assert.NoError(t, ValidatePlan(d))
}

func TestValidatePlan_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *PlanDraft)
		want   error
	}{
		{
			name:   "blank name",
			mutate: func(d *PlanDraft) { d.Name = "  " },
			want:   ErrInvalidName,
		},
		{
			name:   "frequency 2",
			mutate: func(d *PlanDraft) { d.Frequency = 2 },
			want:   ErrInvalidFrequency,
		},
		{
			name:   "frequency 6",
			mutate: func(d *PlanDraft) { d.Frequency = 6 },
			want:   ErrInvalidFrequency,
		},
		{
			name: "frequency 4 with 3 days",
			mutate: func(d *PlanDraft) {
				d.Frequency = 4
			},
			want: ErrDayCountMismatch,
		},
		{
			name: "two sessions on monday",
			mutate: func(d *PlanDraft) {
				d.WeeklyPlan = []DaySession{session(1), session(1), session(5)}
			},
			want: ErrDuplicateDay,
		},
		{
			name: "day 7",
			mutate: func(d *PlanDraft) {
				d.WeeklyPlan = []DaySession{session(1), session(3), session(7)}
			},
			want: ErrDayOutOfRange,
		},
		{
			name: "negative day",
			mutate: func(d *PlanDraft) {
				d.WeeklyPlan = []DaySession{session(-1), session(3), session(5)}
			},
			want: ErrDayOutOfRange,
		},
		{
			name: "no exercises",
			mutate: func(d *PlanDraft) {
				d.WeeklyPlan[1].Exercises = nil
			},
			want: ErrInvalidExercise,
		},
		{
			name: "eleven exercises",
			mutate: func(d *PlanDraft) {
				ex := d.WeeklyPlan[0].Exercises[0]
				d.WeeklyPlan[0].Exercises = make([]Exercise, 11)
				for i := range d.WeeklyPlan[0].Exercises {
					d.WeeklyPlan[0].Exercises[i] = ex
				}
			},
			want: ErrInvalidExercise,
		},
		{
			name:   "exercise without name",
			mutate: func(d *PlanDraft) { d.WeeklyPlan[0].Exercises[0].Name = "" },
			want:   ErrInvalidExercise,
		},
		{
			name:   "zero sets",
			mutate: func(d *PlanDraft) { d.WeeklyPlan[0].Exercises[0].Sets = 0 },
			want:   ErrInvalidExercise,
		},
		{
			name:   "blank reps",
			mutate: func(d *PlanDraft) { d.WeeklyPlan[0].Exercises[0].Reps = " " },
			want:   ErrInvalidExercise,
		},
		{
			name:   "missing order",
			mutate: func(d *PlanDraft) { d.WeeklyPlan[0].Exercises[0].Order = nil },
			want:   ErrInvalidExercise,
		},
		{
			name: "same start and end",
			mutate: func(d *PlanDraft) {
				d.StartDate = date("2025-01-10")
				d.EndDate = date("2025-01-10")
			},
			want: ErrDateOrderInvalid,
		},
		{
			name: "end before start",
			mutate: func(d *PlanDraft) {
				d.StartDate = date("2025-02-10")
				d.EndDate = date("2025-01-10")
			},
			want: ErrDateOrderInvalid,
		},
		{
			name: "four days",
			mutate: func(d *PlanDraft) {
				d.StartDate = date("2025-01-01")
				d.EndDate = date("2025-01-05")
			},
			want: ErrDurationTooShort,
		},
		{
			name: "over a year",
			mutate: func(d *PlanDraft) {
				d.StartDate = date("2025-01-01")
				d.EndDate = date("2026-01-03")
			},
			want: ErrDurationTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			// sessions share exercise slices; give each case its own copy
			d.WeeklyPlan = []DaySession{session(1), session(3), session(5)}
			tt.mutate(&d)

			err := ValidatePlan(d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestValidatePlan_DurationBoundaries(t *testing.T) {
	d := validDraft()
	d.StartDate = date("2025-01-01")
	d.EndDate = date("2025-01-08")
	assert.NoError(t, ValidatePlan(d), "exactly 7 days is allowed")

	d.EndDate = date("2026-01-01")
	assert.NoError(t, ValidatePlan(d), "exactly 365 days is allowed")
}

func TestValidatePlan_FirstFailureWins(t *testing.T) {
	d := validDraft()
	d.Frequency = 4
	d.StartDate = date("2025-01-10")
	d.EndDate = date("2025-01-10")

	err := ValidatePlan(d)
	assert.ErrorIs(t, err, ErrDayCountMismatch)
	assert.NotErrorIs(t, err, ErrDateOrderInvalid)
}

func TestValidatePlan_ExerciseMessage(t *testing.T) {
	d := validDraft()
	d.WeeklyPlan[1].Exercises[0].Sets = 0

	err := ValidatePlan(d)
	require.Error(t, err)
	assert.Equal(t, "day 3, exercise 1: sets must be at least 1", err.Error())
}
