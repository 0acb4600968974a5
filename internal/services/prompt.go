package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/kondate-app/menu-helper/internal/domain"
)

// planSchema declares the exact output shape the generator must emit. The
// model is constrained to this schema; the client still validates the
// payload afterwards instead of trusting it.
func planSchema() *genai.Schema {
	nutrientSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":   {Type: genai.TypeString},
			"amount": {Type: genai.TypeNumber},
			"unit":   {Type: genai.TypeString},
		},
		Required: []string{"name", "amount", "unit"},
	}

	dishSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString},
			"ingredients": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"calorieKcal": {Type: genai.TypeNumber},
			"nutrients":   {Type: genai.TypeArray, Items: nutrientSchema},
			"recipeLink":  {Type: genai.TypeString},
		},
		Required: []string{"name", "calorieKcal", "nutrients"},
	}

	mealSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label":               {Type: genai.TypeString},
			"kind":                {Type: genai.TypeString, Enum: []string{"log", "target"}},
			"dishes":              {Type: genai.TypeArray, Items: dishSchema},
			"subtotalCalorieKcal": {Type: genai.TypeNumber},
			"subtotalNutrients":   {Type: genai.TypeArray, Items: nutrientSchema},
		},
		Required: []string{"label", "kind", "dishes", "subtotalCalorieKcal", "subtotalNutrients"},
	}

	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Suggested daily menu",
		Properties: map[string]*genai.Schema{
			"meals":            {Type: genai.TypeArray, Items: mealSchema},
			"totalCalorieKcal": {Type: genai.TypeNumber},
			"totalNutrients":   {Type: genai.TypeArray, Items: nutrientSchema},
			"rationale":        {Type: genai.TypeString},
			"date":             {Type: genai.TypeString},
		},
		Required: []string{"meals", "totalCalorieKcal", "totalNutrients", "rationale", "date"},
	}
}

// buildPrompt renders the normalized request into the natural-language
// instruction for the generator. The rules mirror the product behavior:
// logged meals keep their dishes and only get nutrition estimates, the
// single target slot is the model's creative latitude, and effort and
// restriction settings are binding.
func buildPrompt(req domain.GenerationRequest, date string, profile json.RawMessage) (string, error) {
	inputJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	if len(profile) == 0 {
		profile = json.RawMessage("{}")
	}

	return fmt.Sprintf(`あなたはプロの管理栄養士です。ユーザーの食事記録と希望に基づいて、今日1日の献立を提案・補完してください。

【ルール】
1. mealPlans のうち kind="log" のものはユーザーが食べた/食べる予定のものです。料理内容は変更せず、栄養素を推定して出力に含めてください。
2. mealPlans のうち kind="target" のものはあなたの提案枠です。全体の栄養バランス（総カロリー、PFCバランス）が整うようにメニューを決定してください。
   - もし content (例: "白米") が入力されている場合は、**必ずそのメニューを含めて**、それに合うおかず等を提案してください。
3. 提案する料理には、具体的な料理名、概算カロリー (calorieKcal)、主要栄養素を含めてください。
4. 提案理由 (rationale) は、ユーザーが納得できる、短く親しみやすい文章（例：「昼が重めだったので夜は野菜中心にしました！」）で出力してください。
5. 調理の手間 (effort) と栄養制限 (restrictions) の設定を厳守してください。forbidden=true の項目は完全に除外し、maxAmount がある項目はその量を超えないでください。
6. **effort が "ready_made_only"（購入品のみ）または "some_ready_made"（一部既製品）の場合**:
   - どのコンビニ（セブン-イレブン、ファミリーマート、ローソン等）でも購入できる一般的な商品のみを提案してください。
   - 例: おにぎり、サンドイッチ、幕の内弁当、サラダチキン、野菜サラダ、カップ味噌汁、ヨーグルト、バナナなど
   - 「野菜と鶏むね肉の和え物」のような一般的でない商品は避けてください。
7. **effort が "eating_out"（外食）の場合**:
   - ファミリーレストラン、牛丼チェーン、ラーメン店など、一般的な外食チェーンで注文できるメニューを提案してください。

【入力データ】
Date: %s
User Profile: %s
User Input: %s`, date, string(profile), string(inputJSON)), nil
}
