package model

import (
	"fmt"
	"strings"
)

// Slot is a named messaging window in the user's day.
type Slot string

const (
	SlotMorning Slot = "MORNING"
	SlotMidday  Slot = "MIDDAY"
	SlotEvening Slot = "EVENING"
)

var Slots = []Slot{SlotMorning, SlotMidday, SlotEvening}

// ParseSlot accepts slot names case-insensitively ("morning", "MIDDAY").
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToUpper(strings.TrimSpace(s))) {
	case SlotMorning:
		return SlotMorning, nil
	case SlotMidday:
		return SlotMidday, nil
	case SlotEvening:
		return SlotEvening, nil
	}
	return "", fmt.Errorf("unknown slot %q", s)
}

// Index is the slot's position in the day, used as the default rotation index.
func (s Slot) Index() int {
	for i, slot := range Slots {
		if slot == s {
			return i
		}
	}
	return 0
}

func (s Slot) String() string {
	return string(s)
}
