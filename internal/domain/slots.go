package domain

import (
	"encoding/json"
	"errors"
)

// SlotKind tags a meal slot as already decided ("log") or open for
// suggestion ("target").
type SlotKind string

const (
	SlotLog    SlotKind = "log"
	SlotTarget SlotKind = "target"
)

// Valid reports whether k is one of the two known kinds.
func (k SlotKind) Valid() bool {
	return k == SlotLog || k == SlotTarget
}

// MealSlot is one meal position in a day. For log slots Content is the dish
// the user ate; for the target slot it is an optional fixed dish the
// suggestion must include.
type MealSlot struct {
	Label   string   `json:"label"`
	Kind    SlotKind `json:"kind"`
	Content string   `json:"content,omitempty"`
}

// ErrMultipleTargets is returned when more than one slot asks for a
// suggestion.
var ErrMultipleTargets = errors.New("meal plan may contain at most one target slot")

// SlotList holds a day's meal slots with at most one target slot. The
// invariant is enforced at construction, so holders never need to
// re-validate.
type SlotList struct {
	slots []MealSlot
}

// NewSlotList builds a SlotList, rejecting plans with more than one target
// slot. A list with zero target slots is valid: composition then degrades to
// a pure logging pass-through.
func NewSlotList(slots []MealSlot) (SlotList, error) {
	targets := 0
	for _, s := range slots {
		if s.Kind == SlotTarget {
			targets++
		}
	}
	if targets > 1 {
		return SlotList{}, ErrMultipleTargets
	}
	copied := make([]MealSlot, len(slots))
	copy(copied, slots)
	return SlotList{slots: copied}, nil
}

// Slots returns the slots in input order.
func (l SlotList) Slots() []MealSlot {
	return l.slots
}

// Target returns the single target slot, if any.
func (l SlotList) Target() (MealSlot, bool) {
	for _, s := range l.slots {
		if s.Kind == SlotTarget {
			return s, true
		}
	}
	return MealSlot{}, false
}

// Len returns the number of slots.
func (l SlotList) Len() int {
	return len(l.slots)
}

// MarshalJSON renders the list as a plain JSON array.
func (l SlotList) MarshalJSON() ([]byte, error) {
	if l.slots == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.slots)
}

// UnmarshalJSON re-checks the single-target invariant on decode so a
// SlotList read back from storage is as trustworthy as a constructed one.
func (l *SlotList) UnmarshalJSON(data []byte) error {
	var slots []MealSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}
	list, err := NewSlotList(slots)
	if err != nil {
		return err
	}
	*l = list
	return nil
}
