package api

import (
	"alcyxob/fitcoach/internal/domain"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToPlanInput_AcceptsClientAliases(t *testing.T) {
	clientID := primitive.NewObjectID()
	trainerID := primitive.NewObjectID()

	for _, body := range []string{
		`{"client":"` + clientID.Hex() + `","name":"Base","frequency":3,"startDate":"2025-01-06","endDate":"2025-02-06","weeklyPlan":[]}`,
		`{"clientId":"` + clientID.Hex() + `","trainerId":"` + trainerID.Hex() + `","name":"Base","frequency":3,"startDate":"2025-01-06","endDate":"2025-02-06","weeklyPlan":[]}`,
	} {
		var req PlanRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		in, err := ToPlanInput(req)
		require.NoError(t, err)
		assert.Equal(t, clientID, in.ClientID)
		assert.Equal(t, "Base", in.Name)
		assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), in.StartDate)
	}
}

func TestToPlanInput_NormalizesExercises(t *testing.T) {
	body := `{
		"clientId":"` + primitive.NewObjectID().Hex() + `",
		"name":" Strength ",
		"frequency":3,
		"startDate":"2025-01-06T08:00:00Z",
		"endDate":"2025-03-01",
		"weeklyPlan":[{"dayOfWeek":1,"exercises":[
			{"name":"Squat","sets":3,"reps":10,"order":0},
			{"name":"Lunge","sets":3,"reps":"8-12","order":1}
		]}]
	}`
	var req PlanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in, err := ToPlanInput(req)
	require.NoError(t, err)
	assert.Equal(t, "Strength", in.Name)
	require.Len(t, in.WeeklyPlan, 1)
	require.Len(t, in.WeeklyPlan[0].Exercises, 2)
	assert.Equal(t, "10", in.WeeklyPlan[0].Exercises[0].Reps)
	assert.Equal(t, "8-12", in.WeeklyPlan[0].Exercises[1].Reps)
	require.NotNil(t, in.WeeklyPlan[0].Exercises[1].Order)
	assert.Equal(t, 1, *in.WeeklyPlan[0].Exercises[1].Order)
}

func TestToPlanInput_Rejects(t *testing.T) {
	tests := []struct {
		name string
		req  PlanRequest
	}{
		{"missing client", PlanRequest{StartDate: "2025-01-01", EndDate: "2025-02-01"}},
		{"bad client id", PlanRequest{ClientID: "nope", StartDate: "2025-01-01", EndDate: "2025-02-01"}},
		{"missing start", PlanRequest{ClientID: primitive.NewObjectID().Hex(), EndDate: "2025-02-01"}},
		{"bad end", PlanRequest{ClientID: primitive.NewObjectID().Hex(), StartDate: "2025-01-01", EndDate: "01/02/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToPlanInput(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadPayload))
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestToPlanInput_SessionWithoutDay(t *testing.T) {
	body := `{
		"clientId":"` + primitive.NewObjectID().Hex() + `",
		"name":"Base",
		"frequency":3,
		"startDate":"2025-01-06",
		"endDate":"2025-03-01",
		"weeklyPlan":[
			{"exercises":[{"name":"Squat","sets":3,"reps":10,"order":0}]},
			{"dayOfWeek":3,"exercises":[{"name":"Row","sets":3,"reps":10,"order":0}]},
			{"dayOfWeek":5,"exercises":[{"name":"Press","sets":3,"reps":10,"order":0}]}
		]
	}`
	var req PlanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	_, err := ToPlanInput(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Contains(t, err.Error(), "weeklyPlan[0].dayOfWeek is required")
}

func TestToPlanInput_SundaySession(t *testing.T) {
	var req PlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"clientId":"`+primitive.NewObjectID().Hex()+`","name":"Base","frequency":3,"startDate":"2025-01-06","endDate":"2025-03-01","weeklyPlan":[{"dayOfWeek":0,"exercises":[]}]}`), &req))

	in, err := ToPlanInput(req)
	require.NoError(t, err)
	require.Len(t, in.WeeklyPlan, 1)
	assert.Equal(t, 0, in.WeeklyPlan[0].DayOfWeek)
}

func TestToLogInput_Aliases(t *testing.T) {
	planID := primitive.NewObjectID()
	body := `{"date":"2025-03-05T15:00:00Z","isCompleted":"false","reasonNotCompleted":"sick","proofImageURL":"proofs/a.jpg","planId":"` + planID.Hex() + `","workoutId":3,"duration":45}`

	var req LogRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	in, err := ToLogInput(req)
	require.NoError(t, err)

	assert.False(t, in.IsCompleted)
	assert.Equal(t, "sick", in.Reason)
	assert.Equal(t, "proofs/a.jpg", in.ProofImage)
	require.NotNil(t, in.PlanID)
	assert.Equal(t, planID, *in.PlanID)
	require.NotNil(t, in.DayOfWeek)
	assert.Equal(t, 3, *in.DayOfWeek)
	require.NotNil(t, in.DurationMinutes)
	assert.Equal(t, 45, *in.DurationMinutes)
	assert.Equal(t, time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC), in.Date)
}

func TestToLogInput_DayOfWeekWinsOverWorkoutID(t *testing.T) {
	var req LogRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-03-04","isCompleted":true,"dayOfWeek":2,"workoutId":5,"reason":"x"}`), &req))

	in, err := ToLogInput(req)
	require.NoError(t, err)
	assert.True(t, in.IsCompleted)
	assert.Equal(t, 2, *in.DayOfWeek)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), in.Date)
}

func TestToLogInput_Rejects(t *testing.T) {
	neg := -5
	tests := []struct {
		name string
		req  LogRequest
	}{
		{"missing date", LogRequest{IsCompleted: true}},
		{"blank date", LogRequest{Date: "  ", IsCompleted: true}},
		{"unparseable date", LogRequest{Date: "yesterday"}},
		{"negative duration", LogRequest{Date: "2025-03-04", Duration: &neg}},
		{"bad plan id", LogRequest{Date: "2025-03-04", PlanID: "xyz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToLogInput(tt.req)
			assert.ErrorIs(t, err, ErrBadPayload)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestFlexBool_RejectsGarbage(t *testing.T) {
	var req LogRequest
	err := json.Unmarshal([]byte(`{"isCompleted":"maybe"}`), &req)
	assert.Error(t, err)
}

func TestParseLogWindow(t *testing.T) {
	fallback := &domain.DayWindow{Start: time.Unix(0, 0).UTC(), End: time.Unix(86400, 0).UTC()}

	w, err := parseLogWindow("", "", "", "", fallback)
	require.NoError(t, err)
	assert.Same(t, fallback, w)

	w, err = parseLogWindow("", "", "", "", nil)
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = parseLogWindow("2025", "2", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), w.End)

	w, err = parseLogWindow("", "", "2025-02-10", "2025-02-10", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC), w.End, "to is inclusive")

	_, err = parseLogWindow("2025", "", "", "", nil)
	assert.ErrorIs(t, err, ErrBadPayload)
	_, err = parseLogWindow("2025", "13", "", "", nil)
	assert.ErrorIs(t, err, ErrBadPayload)
	_, err = parseLogWindow("", "", "2025-02-10", "", nil)
	assert.ErrorIs(t, err, ErrBadPayload)
	_, err = parseLogWindow("", "", "2025-02-10", "2025-02-01", nil)
	assert.ErrorIs(t, err, ErrBadPayload)
}
