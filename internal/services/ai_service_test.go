package services

import (
	"testing"

	"github.com/kondate-app/menu-helper/internal/domain"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"date": "1999-01-01",
	"rationale": "昼が重めだったので夜は軽めにしました。",
	"totalCalorieKcal": 380,
	"totalNutrients": [{"name": "タンパク質", "amount": 25, "unit": "g"}],
	"meals": [
		{
			"label": "朝",
			"kind": "log",
			"dishes": [
				{
					"name": "おにぎり",
					"calorieKcal": 180,
					"nutrients": [{"name": "炭水化物", "amount": 39, "unit": "g"}]
				}
			],
			"subtotalCalorieKcal": 180,
			"subtotalNutrients": [{"name": "炭水化物", "amount": 39, "unit": "g"}]
		},
		{
			"label": "夜",
			"kind": "target",
			"dishes": [
				{
					"name": "鮭の塩焼き",
					"ingredients": ["鮭", "塩"],
					"calorieKcal": 200,
					"nutrients": [{"name": "タンパク質", "amount": 22, "unit": "g"}],
					"recipeLink": "https://example.com/sake"
				}
			],
			"subtotalCalorieKcal": 200,
			"subtotalNutrients": [{"name": "タンパク質", "amount": 22, "unit": "g"}]
		}
	]
}`

func TestDecodePlanValid(t *testing.T) {
	plan, err := decodePlan(validPayload)
	require.NoError(t, err)
	require.Len(t, plan.Meals, 2)
	assert.Equal(t, domain.SlotTarget, plan.Meals[1].Kind)
	assert.Equal(t, []string{"鮭", "塩"}, plan.Meals[1].Dishes[0].Ingredients)
}

func TestDecodePlanStripsCodeFences(t *testing.T) {
	wrapped := "```json\n" + validPayload + "\n```"
	plan, err := decodePlan(wrapped)
	require.NoError(t, err)
	assert.Len(t, plan.Meals, 2)
}

func TestDecodePlanSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not JSON at all", "申し訳ありません、生成できませんでした。"},
		{"wrong primitive type", `{"meals": [], "totalCalorieKcal": "四百", "totalNutrients": [], "rationale": "x", "date": "d"}`},
		{"missing rationale", `{"meals": [], "totalCalorieKcal": 0, "totalNutrients": [], "date": "d"}`},
		{"missing meals", `{"totalCalorieKcal": 0, "totalNutrients": [], "rationale": "x", "date": "d"}`},
		{"kind outside enum", `{"meals": [{"label": "朝", "kind": "snack", "dishes": [], "subtotalCalorieKcal": 0, "subtotalNutrients": []}], "totalCalorieKcal": 0, "totalNutrients": [], "rationale": "x", "date": "d"}`},
		{"negative calorie", `{"meals": [{"label": "朝", "kind": "log", "dishes": [{"name": "おにぎり", "calorieKcal": -10, "nutrients": []}], "subtotalCalorieKcal": 0, "subtotalNutrients": []}], "totalCalorieKcal": 0, "totalNutrients": [], "rationale": "x", "date": "d"}`},
		{"nutrient without unit", `{"meals": [{"label": "朝", "kind": "log", "dishes": [{"name": "おにぎり", "calorieKcal": 10, "nutrients": [{"name": "炭水化物", "amount": 1, "unit": ""}]}], "subtotalCalorieKcal": 0, "subtotalNutrients": []}], "totalCalorieKcal": 0, "totalNutrients": [], "rationale": "x", "date": "d"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePlan(tt.payload)
			require.Error(t, err)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeSchema, appErr.Type)
		})
	}
}

func TestBuildPromptEmbedsConstraints(t *testing.T) {
	slots, err := domain.NewSlotList([]domain.MealSlot{
		{Label: "朝", Kind: domain.SlotLog, Content: "おにぎり"},
		{Label: "夜", Kind: domain.SlotTarget, Content: "白米"},
	})
	require.NoError(t, err)

	max := 30.0
	req := domain.GenerationRequest{
		Slots: slots,
		Preferences: domain.Preferences{
			Volume:        domain.VolumeFullSet,
			Effort:        domain.EffortReadyMadeOnly,
			BalanceWindow: domain.BalanceDaily,
			Restrictions: []domain.NutrientRestriction{
				{Key: "sugar", Forbidden: true},
				{Key: "wheat", MaxAmount: &max},
			},
		},
	}

	prompt, err := buildPrompt(req, "2025-06-01", []byte(`{"age":30}`))
	require.NoError(t, err)

	assert.Contains(t, prompt, "2025-06-01")
	assert.Contains(t, prompt, `"age":30`)
	assert.Contains(t, prompt, "白米")
	assert.Contains(t, prompt, "ready_made_only")
	assert.Contains(t, prompt, "sugar")
	assert.Contains(t, prompt, "コンビニ")
	assert.Contains(t, prompt, "rationale")
}

func TestBuildPromptEmptyProfile(t *testing.T) {
	slots, err := domain.NewSlotList(nil)
	require.NoError(t, err)

	prompt, err := buildPrompt(domain.GenerationRequest{Slots: slots}, "2025-06-01", nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "User Profile: {}")
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("}{"))
}
