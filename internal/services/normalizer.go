package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kondate-app/menu-helper/internal/domain"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
)

// RawSlot is one meal row as the client sends it, before validation.
type RawSlot struct {
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
}

// RawRestriction is the UI tri-state for one nutrient: unchecked means
// unlimited, checked without a max means fully forbidden, checked with a
// max means a ceiling.
type RawRestriction struct {
	Enabled bool     `json:"enabled"`
	Max     *float64 `json:"max,omitempty"`
}

// RawPreferences is the loosely filled preference form. CalorieLimit
// arrives as free text.
type RawPreferences struct {
	Ingredients   string                    `json:"ingredients,omitempty"`
	DishCategory  string                    `json:"dishCategory,omitempty"`
	Volume        string                    `json:"volume,omitempty"`
	Effort        string                    `json:"effort,omitempty"`
	CalorieLimit  string                    `json:"calorieLimit,omitempty"`
	BalanceWindow string                    `json:"balanceWindow,omitempty"`
	Restrictions  map[string]RawRestriction `json:"restrictions,omitempty"`
}

// RawMenuInput is the request body for a suggestion.
type RawMenuInput struct {
	Slots       []RawSlot      `json:"mealPlans"`
	Preferences RawPreferences `json:"preferences"`
}

// Normalize converts raw UI state into the canonical generation request.
// It fails with a validation error when more than one slot is a target,
// when a slot is malformed, or when a restriction key is empty. A blank or
// non-numeric calorie limit is not an error: the generator treats a missing
// limit as unconstrained.
func Normalize(input RawMenuInput) (domain.GenerationRequest, error) {
	slots := make([]domain.MealSlot, 0, len(input.Slots))
	for _, raw := range input.Slots {
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			return domain.GenerationRequest{}, apperrors.NewValidationError("meal slot label must not be empty")
		}
		kind := domain.SlotKind(strings.TrimSpace(raw.Kind))
		if !kind.Valid() {
			return domain.GenerationRequest{}, apperrors.NewValidationError("meal slot kind must be \"log\" or \"target\"")
		}
		slots = append(slots, domain.MealSlot{
			Label:   label,
			Kind:    kind,
			Content: strings.TrimSpace(raw.Content),
		})
	}

	slotList, err := domain.NewSlotList(slots)
	if err != nil {
		return domain.GenerationRequest{}, apperrors.NewValidationError(err.Error())
	}

	prefs, err := normalizePreferences(input.Preferences)
	if err != nil {
		return domain.GenerationRequest{}, err
	}

	return domain.GenerationRequest{Slots: slotList, Preferences: prefs}, nil
}

func normalizePreferences(raw RawPreferences) (domain.Preferences, error) {
	volume, err := parseVolume(raw.Volume)
	if err != nil {
		return domain.Preferences{}, err
	}
	effort, err := parseEffort(raw.Effort)
	if err != nil {
		return domain.Preferences{}, err
	}
	window, err := parseBalanceWindow(raw.BalanceWindow)
	if err != nil {
		return domain.Preferences{}, err
	}

	restrictions, err := normalizeRestrictions(raw.Restrictions)
	if err != nil {
		return domain.Preferences{}, err
	}

	return domain.Preferences{
		Ingredients:   strings.TrimSpace(raw.Ingredients),
		DishCategory:  strings.TrimSpace(raw.DishCategory),
		Volume:        volume,
		Effort:        effort,
		CalorieLimit:  coerceCalorieLimit(raw.CalorieLimit),
		BalanceWindow: window,
		Restrictions:  restrictions,
	}, nil
}

// normalizeRestrictions drops inert entries and collapses the tri-state
// into the canonical forbidden/ceiling form. Forbidden entries never carry
// a max amount.
func normalizeRestrictions(raw map[string]RawRestriction) ([]domain.NutrientRestriction, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.NutrientRestriction, 0, len(raw))
	for key, r := range raw {
		if strings.TrimSpace(key) == "" {
			return nil, apperrors.NewValidationError("restriction identifier must not be empty")
		}
		if !r.Enabled && r.Max == nil {
			continue // inert, must not reach the generator
		}
		restriction := domain.NutrientRestriction{Key: key}
		switch {
		case r.Enabled && r.Max == nil:
			restriction.Forbidden = true
		case r.Enabled && *r.Max <= 0:
			restriction.Forbidden = true
		default:
			max := *r.Max
			restriction.MaxAmount = &max
		}
		out = append(out, restriction)
	}
	if len(out) == 0 {
		return nil, nil
	}
	sortRestrictions(out)
	return out, nil
}

// sortRestrictions keeps prompts and stored inputs reproducible, since map
// iteration order is random.
func sortRestrictions(rs []domain.NutrientRestriction) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Key < rs[j].Key })
}

// coerceCalorieLimit turns numeric-looking text into a number. Blank and
// non-numeric input both degrade to nil rather than failing the request.
func coerceCalorieLimit(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func parseVolume(s string) (domain.Volume, error) {
	switch domain.Volume(strings.TrimSpace(s)) {
	case "":
		return domain.VolumeFullSet, nil
	case domain.VolumeFullSet:
		return domain.VolumeFullSet, nil
	case domain.VolumeOneDish:
		return domain.VolumeOneDish, nil
	case domain.VolumeSideDishOnly:
		return domain.VolumeSideDishOnly, nil
	case domain.VolumeLightSnack:
		return domain.VolumeLightSnack, nil
	}
	return "", apperrors.NewValidationError("unknown volume preference")
}

func parseEffort(s string) (domain.Effort, error) {
	switch domain.Effort(strings.TrimSpace(s)) {
	case "":
		return domain.EffortManual, nil
	case domain.EffortManual:
		return domain.EffortManual, nil
	case domain.EffortSomeReadyMade:
		return domain.EffortSomeReadyMade, nil
	case domain.EffortReadyMadeOnly:
		return domain.EffortReadyMadeOnly, nil
	case domain.EffortEatingOut:
		return domain.EffortEatingOut, nil
	}
	return "", apperrors.NewValidationError("unknown effort preference")
}

func parseBalanceWindow(s string) (domain.BalanceWindow, error) {
	switch domain.BalanceWindow(strings.TrimSpace(s)) {
	case "":
		return domain.BalanceNone, nil
	case domain.BalanceDaily:
		return domain.BalanceDaily, nil
	case domain.BalanceWeekly:
		return domain.BalanceWeekly, nil
	case domain.BalanceNone:
		return domain.BalanceNone, nil
	}
	return "", apperrors.NewValidationError("unknown balance window")
}
