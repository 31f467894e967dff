package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingLog records whether a client did a scheduled session on a given day.
// Date is always a UTC calendar day (midnight).
type TrainingLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID       primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	PlanID          primitive.ObjectID `bson:"planId" json:"planId"`
	DayOfWeek       int                `bson:"dayOfWeek" json:"dayOfWeek"`
	Date            time.Time          `bson:"date" json:"date"`
	IsCompleted     bool               `bson:"isCompleted" json:"isCompleted"`
	Reason          string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ProofImage      string             `bson:"proofImage,omitempty" json:"proofImage,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	DurationMinutes *int               `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// LogStats summarises a client's logs over a period.
type LogStats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Missed         int64 `json:"missed"`
	CompletionRate int   `json:"completionRate"` // whole percent
}

// NewLogStats computes the completion rate, rounding half up like the dashboard does.
func NewLogStats(total, completed, missed int64) LogStats {
	rate := 0
	if total > 0 {
		rate = int((completed*200 + total) / (total * 2))
	}
	return LogStats{Total: total, Completed: completed, Missed: missed, CompletionRate: rate}
}
