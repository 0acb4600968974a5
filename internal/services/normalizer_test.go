package services

import (
	"testing"

	"github.com/kondate-app/menu-helper/internal/domain"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func TestNormalizeSlots(t *testing.T) {
	req, err := Normalize(RawMenuInput{
		Slots: []RawSlot{
			{Label: " 朝 ", Kind: "log", Content: " おにぎり "},
			{Label: "夜", Kind: "target"},
		},
	})
	require.NoError(t, err)

	slots := req.Slots.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "朝", slots[0].Label)
	assert.Equal(t, "おにぎり", slots[0].Content)
	assert.Equal(t, domain.SlotLog, slots[0].Kind)
	assert.Equal(t, domain.SlotTarget, slots[1].Kind)
}

func TestNormalizeRejectsMultipleTargets(t *testing.T) {
	_, err := Normalize(RawMenuInput{
		Slots: []RawSlot{
			{Label: "昼", Kind: "target"},
			{Label: "夜", Kind: "target"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestNormalizeRejectsMalformedSlots(t *testing.T) {
	tests := []struct {
		name string
		slot RawSlot
	}{
		{"blank label", RawSlot{Label: "  ", Kind: "log"}},
		{"unknown kind", RawSlot{Label: "朝", Kind: "suggested"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(RawMenuInput{Slots: []RawSlot{tt.slot}})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		})
	}
}

func TestNormalizeRestrictions(t *testing.T) {
	req, err := Normalize(RawMenuInput{
		Slots: []RawSlot{{Label: "夜", Kind: "target"}},
		Preferences: RawPreferences{
			Restrictions: map[string]RawRestriction{
				"sugar": {Enabled: true},                          // fully forbidden
				"wheat": {Enabled: true, Max: float64Ptr(30)},     // ceiling
				"dairy": {},                                       // inert, dropped
				"oil":   {Enabled: false, Max: float64Ptr(10)},    // disabled ceiling still counts
				"salt":  {Enabled: true, Max: float64Ptr(0)},      // zero ceiling collapses to forbidden
			},
		},
	})
	require.NoError(t, err)

	rs := req.Preferences.Restrictions
	require.Len(t, rs, 4)

	byKey := map[string]domain.NutrientRestriction{}
	for _, r := range rs {
		byKey[r.Key] = r
	}
	assert.NotContains(t, byKey, "dairy")

	assert.True(t, byKey["sugar"].Forbidden)
	assert.Nil(t, byKey["sugar"].MaxAmount)

	assert.False(t, byKey["wheat"].Forbidden)
	require.NotNil(t, byKey["wheat"].MaxAmount)
	assert.Equal(t, 30.0, *byKey["wheat"].MaxAmount)

	require.NotNil(t, byKey["oil"].MaxAmount)
	assert.Equal(t, 10.0, *byKey["oil"].MaxAmount)

	assert.True(t, byKey["salt"].Forbidden)

	// Output order is deterministic regardless of map iteration.
	assert.Equal(t, "oil", rs[0].Key)
	assert.Equal(t, "salt", rs[1].Key)
	assert.Equal(t, "sugar", rs[2].Key)
	assert.Equal(t, "wheat", rs[3].Key)
}

func TestNormalizeRejectsEmptyRestrictionKey(t *testing.T) {
	_, err := Normalize(RawMenuInput{
		Slots: []RawSlot{{Label: "夜", Kind: "target"}},
		Preferences: RawPreferences{
			Restrictions: map[string]RawRestriction{
				" ": {Enabled: true},
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestCoerceCalorieLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"plain number", "1800", float64Ptr(1800)},
		{"decimal", "1650.5", float64Ptr(1650.5)},
		{"padded", "  2000 ", float64Ptr(2000)},
		{"blank degrades to unconstrained", "", nil},
		{"non-numeric degrades to unconstrained", "about 1800", nil},
		{"negative degrades to unconstrained", "-100", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceCalorieLimit(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestNormalizePreferenceEnums(t *testing.T) {
	req, err := Normalize(RawMenuInput{
		Slots: []RawSlot{{Label: "夜", Kind: "target"}},
		Preferences: RawPreferences{
			Volume:        "one_dish",
			Effort:        "ready_made_only",
			BalanceWindow: "weekly",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VolumeOneDish, req.Preferences.Volume)
	assert.Equal(t, domain.EffortReadyMadeOnly, req.Preferences.Effort)
	assert.Equal(t, domain.BalanceWeekly, req.Preferences.BalanceWindow)

	// Blank enums fall back to defaults.
	req, err = Normalize(RawMenuInput{Slots: []RawSlot{{Label: "夜", Kind: "target"}}})
	require.NoError(t, err)
	assert.Equal(t, domain.VolumeFullSet, req.Preferences.Volume)
	assert.Equal(t, domain.EffortManual, req.Preferences.Effort)
	assert.Equal(t, domain.BalanceNone, req.Preferences.BalanceWindow)

	// Unknown non-blank enum values are caller errors.
	_, err = Normalize(RawMenuInput{
		Slots:       []RawSlot{{Label: "夜", Kind: "target"}},
		Preferences: RawPreferences{Effort: "takeout"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}
