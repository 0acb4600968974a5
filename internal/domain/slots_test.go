package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlotList(t *testing.T) {
	tests := []struct {
		name    string
		slots   []MealSlot
		wantErr error
	}{
		{
			name: "single target",
			slots: []MealSlot{
				{Label: "朝", Kind: SlotLog, Content: "おにぎり"},
				{Label: "夜", Kind: SlotTarget},
			},
		},
		{
			name: "zero targets is a pure logging pass",
			slots: []MealSlot{
				{Label: "朝", Kind: SlotLog, Content: "トースト"},
				{Label: "昼", Kind: SlotLog, Content: "そば"},
			},
		},
		{
			name:  "empty list",
			slots: nil,
		},
		{
			name: "two targets rejected",
			slots: []MealSlot{
				{Label: "昼", Kind: SlotTarget},
				{Label: "夜", Kind: SlotTarget},
			},
			wantErr: ErrMultipleTargets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := NewSlotList(tt.slots)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.slots), list.Len())
		})
	}
}

func TestSlotListTarget(t *testing.T) {
	list, err := NewSlotList([]MealSlot{
		{Label: "朝", Kind: SlotLog, Content: "おにぎり"},
		{Label: "夜", Kind: SlotTarget, Content: "白米"},
	})
	require.NoError(t, err)

	target, ok := list.Target()
	require.True(t, ok)
	assert.Equal(t, "夜", target.Label)
	assert.Equal(t, "白米", target.Content)

	empty, err := NewSlotList(nil)
	require.NoError(t, err)
	_, ok = empty.Target()
	assert.False(t, ok)
}

func TestSlotListIsImmutable(t *testing.T) {
	slots := []MealSlot{{Label: "朝", Kind: SlotLog}}
	list, err := NewSlotList(slots)
	require.NoError(t, err)

	slots[0].Label = "mutated"
	assert.Equal(t, "朝", list.Slots()[0].Label)
}

func TestSlotListJSONRoundTrip(t *testing.T) {
	list, err := NewSlotList([]MealSlot{
		{Label: "朝", Kind: SlotLog, Content: "おにぎり"},
		{Label: "夜", Kind: SlotTarget},
	})
	require.NoError(t, err)

	data, err := json.Marshal(list)
	require.NoError(t, err)

	var decoded SlotList
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list.Slots(), decoded.Slots())
}

func TestSlotListUnmarshalRejectsMultipleTargets(t *testing.T) {
	data := []byte(`[{"label":"昼","kind":"target"},{"label":"夜","kind":"target"}]`)
	var list SlotList
	err := json.Unmarshal(data, &list)
	assert.ErrorIs(t, err, ErrMultipleTargets)
}
