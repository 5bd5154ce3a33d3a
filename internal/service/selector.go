package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/goalnudge/internal/lexicon"
	"github.com/templui/goalnudge/internal/model"
)

// Reason records which selection rule produced a decision.
type Reason string

const (
	ReasonNoPendingSteps             Reason = "no_pending_steps"
	ReasonQuickStepAlwaysGood        Reason = "quick_step_always_good"
	ReasonExternalActionOutsideHours Reason = "external_action_outside_hours"
	ReasonEveningPrefersLightAction  Reason = "evening_prefers_light_action"
	ReasonStepStuckTooLong           Reason = "step_stuck_too_long"
	ReasonMiddayPrefersQuickWin      Reason = "midday_prefers_quick_win"
	ReasonExistingStepAppropriate    Reason = "existing_step_appropriate"
	ReasonAlternativeRequested       Reason = "alternative_requested"
)

const (
	businessHoursStart = 9  // inclusive
	businessHoursEnd   = 18 // exclusive
	middayBreakStart   = 12 // inclusive
	middayBreakEnd     = 15 // inclusive
	stuckStepDays      = 3
)

// Decision is the selector's answer for one objective and slot.
type Decision struct {
	UseExistingStep bool
	ActionText      string
	CheckinID       *string
	IsAIGenerated   bool
	Reason          Reason
}

// SelectionInput is everything a rule may look at.
type SelectionInput struct {
	View  ObjectiveView
	Slot  model.Slot
	Now   time.Time
	Local time.Time // Now in the user's zone
}

func (in SelectionInput) step() *model.Step {
	return in.View.PendingStep
}

// actionRule is one row of the decision table. Rules are evaluated in
// order and the first match wins.
type actionRule struct {
	reason     Reason
	synthesize bool
	matches    func(lex *lexicon.Lexicon, in SelectionInput) bool
	hint       func(in SelectionInput) string
}

var actionRules = []actionRule{
	{
		reason:     ReasonNoPendingSteps,
		synthesize: true,
		matches: func(_ *lexicon.Lexicon, in SelectionInput) bool {
			return in.step() == nil
		},
	},
	{
		reason: ReasonQuickStepAlwaysGood,
		matches: func(_ *lexicon.Lexicon, in SelectionInput) bool {
			return in.step().EffortLabel == model.EffortTiny
		},
	},
	{
		reason:     ReasonExternalActionOutsideHours,
		synthesize: true,
		matches: func(lex *lexicon.Lexicon, in SelectionInput) bool {
			hour := in.Local.Hour()
			outside := hour < businessHoursStart || hour >= businessHoursEnd
			return outside && lex.Matches(in.step().Text(), lexicon.CategoryExternalInteraction)
		},
		hint: func(in SelectionInput) string {
			return fmt.Sprintf("The planned step %q needs places or people that are not available at this hour. Suggest a preparation or research action doable from home right now.", in.step().Title)
		},
	},
	{
		reason:     ReasonEveningPrefersLightAction,
		synthesize: true,
		matches: func(_ *lexicon.Lexicon, in SelectionInput) bool {
			return in.Slot == model.SlotEvening && model.EffortRank(in.step().EffortLabel) >= model.EffortRank(model.EffortSmall)
		},
		hint: func(in SelectionInput) string {
			return fmt.Sprintf("It is evening and the planned step %q is too long for now. Suggest a light reflection or a 2-minute action.", in.step().Title)
		},
	},
	{
		reason:     ReasonStepStuckTooLong,
		synthesize: true,
		matches: func(_ *lexicon.Lexicon, in SelectionInput) bool {
			return daysPending(in.step(), in.Now) >= stuckStepDays
		},
		hint: func(in SelectionInput) string {
			return fmt.Sprintf("The step %q has been pending for %d days. Suggest an easier alternative that breaks the stall.", in.step().Title, daysPending(in.step(), in.Now))
		},
	},
	{
		reason:     ReasonMiddayPrefersQuickWin,
		synthesize: true,
		matches: func(_ *lexicon.Lexicon, in SelectionInput) bool {
			hour := in.Local.Hour()
			return in.Slot == model.SlotMidday &&
				hour >= middayBreakStart && hour <= middayBreakEnd &&
				model.EffortRank(in.step().EffortLabel) >= model.EffortRank(model.EffortSmall)
		},
		hint: func(in SelectionInput) string {
			return fmt.Sprintf("It is a midday break and the step %q takes too long. Suggest a 2 to 5 minute quick win.", in.step().Title)
		},
	},
	{
		reason: ReasonExistingStepAppropriate,
		matches: func(_ *lexicon.Lexicon, _ SelectionInput) bool {
			return true
		},
	},
}

func daysPending(step *model.Step, now time.Time) int {
	return int(now.Sub(step.CreatedAt) / (24 * time.Hour))
}

// ActionSelector decides between an objective's pending step and a fresh
// synthesized micro-action.
type ActionSelector struct {
	synthesizer *Synthesizer
	lexicon     *lexicon.Lexicon
}

func NewActionSelector(synthesizer *Synthesizer, lex *lexicon.Lexicon) *ActionSelector {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &ActionSelector{
		synthesizer: synthesizer,
		lexicon:     lex,
	}
}

// Match returns the first rule that applies to in, without synthesizing.
func (s *ActionSelector) Match(in SelectionInput) (reason Reason, synthesize bool) {
	rule := s.match(in)
	return rule.reason, rule.synthesize
}

func (s *ActionSelector) match(in SelectionInput) actionRule {
	for _, rule := range actionRules {
		if rule.matches(s.lexicon, in) {
			return rule
		}
	}
	// The last rule always matches.
	return actionRules[len(actionRules)-1]
}

// Decide picks the action for view at now, evaluated in loc.
func (s *ActionSelector) Decide(ctx context.Context, view ObjectiveView, slot model.Slot, now time.Time, loc *time.Location) Decision {
	in := SelectionInput{
		View:  view,
		Slot:  slot,
		Now:   now,
		Local: now.In(loc),
	}

	rule := s.match(in)

	if !rule.synthesize {
		step := in.step()
		id := step.ID
		return Decision{
			UseExistingStep: true,
			ActionText:      step.Title,
			CheckinID:       &id,
			IsAIGenerated:   false,
			Reason:          rule.reason,
		}
	}

	hint := ""
	if rule.hint != nil {
		hint = rule.hint(in)
	}

	text := s.synthesizer.Synthesize(ctx, view.Title, hint)
	slog.Debug("synthesized micro-action",
		"objective_id", view.ID,
		"reason", rule.reason,
		"local_hour", in.Local.Hour(),
	)

	return Decision{
		UseExistingStep: false,
		ActionText:      text,
		CheckinID:       nil,
		IsAIGenerated:   true,
		Reason:          rule.reason,
	}
}
