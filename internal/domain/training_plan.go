// internal/domain/training_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxExercisesPerSession caps the exercises a trainer may put into one day.
const MaxExercisesPerSession = 10

// Exercise is one prescribed movement inside a DaySession.
type Exercise struct {
	Name         string `bson:"name" json:"name" validate:"required"`
	Sets         int    `bson:"sets" json:"sets" validate:"min=1"`
	Reps         string `bson:"reps" json:"reps" validate:"required"` // free-form, e.g. "10" or "8-12"
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoURL     string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Order        *int   `bson:"order" json:"order" validate:"required"`
}

// DaySession is the set of exercises scheduled for one weekday (0=Sunday).
type DaySession struct {
	DayOfWeek int        `bson:"dayOfWeek" json:"dayOfWeek"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// TrainingPlan is a trainer-authored weekly schedule for one client.
type TrainingPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID  primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name       string             `bson:"name" json:"name"`
	Frequency  int                `bson:"frequency" json:"frequency"`
	StartDate  time.Time          `bson:"startDate" json:"startDate"`
	EndDate    time.Time          `bson:"endDate" json:"endDate"`
	WeeklyPlan []DaySession       `bson:"weeklyPlan" json:"weeklyPlan"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SessionOn returns the session scheduled for the given weekday, if any.
func (p *TrainingPlan) SessionOn(dayOfWeek int) (*DaySession, bool) {
	for i := range p.WeeklyPlan {
		if p.WeeklyPlan[i].DayOfWeek == dayOfWeek {
			return &p.WeeklyPlan[i], true
		}
	}
	return nil, false
}

// CoversDay reports whether the calendar day falls inside [StartDate, EndDate],
// both ends compared as UTC calendar days.
func (p *TrainingPlan) CoversDay(day time.Time) bool {
	d := CalendarDay(day)
	return !d.Before(CalendarDay(p.StartDate)) && !d.After(CalendarDay(p.EndDate))
}

// PlanFilter narrows plan lookups. Nil fields are not applied.
type PlanFilter struct {
	TrainerID *primitive.ObjectID
	ClientID  *primitive.ObjectID
	IsActive  *bool
	DayOfWeek *int
}
