package model

import (
	"time"
)

const (
	PendingActionStatusPending              = "pending"
	PendingActionStatusDone                 = "done"
	PendingActionStatusSkipped              = "skipped"
	PendingActionStatusAlternativeRequested = "alternative_requested"
)

// PendingAction is the single outstanding nudge awaiting a user's reply.
// CheckinID is nil while the action has not been materialized as a Step.
type PendingAction struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	ObjectiveID   string     `db:"objective_id" json:"objective_id"`
	CheckinID     *string    `db:"checkin_id" json:"checkin_id,omitempty"`
	ActionText    string     `db:"action_text" json:"action_text"`
	IsAIGenerated bool       `db:"is_ai_generated" json:"is_ai_generated"`
	Reason        string     `db:"reason" json:"reason"`
	Slot          string     `db:"slot" json:"slot"`
	Status        string     `db:"status" json:"status"`
	ExpiresAt     time.Time  `db:"expires_at" json:"expires_at"`
	RespondedAt   *time.Time `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

func (p *PendingAction) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

func (p *PendingAction) IsPending() bool {
	return p.Status == PendingActionStatusPending
}

func (p *PendingAction) HasStep() bool {
	return p.CheckinID != nil && *p.CheckinID != ""
}
