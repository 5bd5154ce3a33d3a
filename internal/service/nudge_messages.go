package service

import (
	"fmt"
	"strings"

	"github.com/templui/goalnudge/internal/model"
)

func slotGreeting(slot model.Slot) string {
	switch slot {
	case model.SlotMorning:
		return "Good morning!"
	case model.SlotMidday:
		return "Quick midday check-in."
	case model.SlotEvening:
		return "Good evening!"
	default:
		return "Hi!"
	}
}

func noActiveObjectivesMessage() string {
	return "You have no active objectives right now. Start one and I'll help you take the first step."
}

func nudgeMessage(slot model.Slot, objectiveTitle, actionText string, streakHint *string, withOptions bool) string {
	var b strings.Builder

	b.WriteString(slotGreeting(slot))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**%s**\n", objectiveTitle)
	fmt.Fprintf(&b, "Next step: %s\n", actionText)

	if streakHint != nil {
		fmt.Fprintf(&b, "%s\n", *streakHint)
	}

	if withOptions {
		b.WriteString("\nReply:\n1 = done\n2 = later\n3 = something easier")
	}

	return strings.TrimRight(b.String(), "\n")
}

func streakHint(streakDays int) *string {
	if streakDays <= 0 {
		return nil
	}
	hint := fmt.Sprintf("You're on a %d-day streak. Keep it going!", streakDays)
	return &hint
}

func doneMessage(newStreak *int) string {
	if newStreak == nil {
		return "Great job! Step marked as done."
	}
	return fmt.Sprintf("Great job! Step marked as done. Streak: %s.", dayCount(*newStreak))
}

func laterMessage() string {
	return "No problem. I'll bring it back in a later nudge."
}

func alternativeMessage(alternative string, withOptions bool) string {
	msg := fmt.Sprintf("Here's an easier option:\n%s", alternative)
	if withOptions {
		msg += "\n\nReply:\n1 = done\n2 = tomorrow"
	}
	return msg
}

func notUnderstoodMessage() string {
	return "Sorry, I didn't understand that. Reply 1, 2 or 3 to your latest nudge."
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
