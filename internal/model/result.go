package model

// BuildResult is the outcome of building a nudge for one slot.
type BuildResult struct {
	UserID         string  `json:"user_id"`
	Message        string  `json:"message"`
	ObjectiveID    *string `json:"objective_id"`
	ActionSaved    bool    `json:"action_saved"`
	ObjectiveTitle *string `json:"objective_title"`
	ActionText     *string `json:"action_text"`
	StreakHint     *string `json:"streak_hint"`
	Reason         string  `json:"reason,omitempty"`
}

// ReplyResult is the outcome of processing an inbound reply code.
type ReplyResult struct {
	Success           bool   `json:"success"`
	ReplyMessage      string `json:"reply_message"`
	NewStreak         *int   `json:"new_streak,omitempty"`
	AlternativeAction string `json:"alternative_action,omitempty"`
}
