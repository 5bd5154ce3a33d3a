package model

import (
	"time"
)

const (
	ObjectiveStatusQueued    = "queued"
	ObjectiveStatusBuilding  = "building"
	ObjectiveStatusTesting   = "testing"
	ObjectiveStatusAdjusting = "adjusting"
	ObjectiveStatusCompleted = "completed"
	ObjectiveStatusAbandoned = "abandoned"
)

// ActiveObjectiveStatuses are the statuses that take part in nudging.
// Queued objectives have not been started yet.
var ActiveObjectiveStatuses = []string{
	ObjectiveStatusBuilding,
	ObjectiveStatusTesting,
	ObjectiveStatusAdjusting,
}

type Objective struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Status        string     `db:"status" json:"status"`
	StreakDays    int        `db:"streak_days" json:"streak_days"`
	LastCheckinAt *time.Time `db:"last_checkin_at" json:"last_checkin_at,omitempty"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (o *Objective) IsActive() bool {
	if o.DeletedAt != nil {
		return false
	}
	return IsActiveObjectiveStatus(o.Status)
}

func IsActiveObjectiveStatus(status string) bool {
	for _, s := range ActiveObjectiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidObjectiveStatus(status string) bool {
	switch status {
	case ObjectiveStatusQueued, ObjectiveStatusBuilding, ObjectiveStatusTesting,
		ObjectiveStatusAdjusting, ObjectiveStatusCompleted, ObjectiveStatusAbandoned:
		return true
	}
	return false
}
