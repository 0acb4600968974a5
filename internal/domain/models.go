package domain

// Volume describes how substantial the suggested meal should be.
type Volume string

const (
	VolumeFullSet      Volume = "full_set" // soup plus three dishes
	VolumeOneDish      Volume = "one_dish"
	VolumeSideDishOnly Volume = "side_dish_only"
	VolumeLightSnack   Volume = "light_snack"
)

// Effort describes how much cooking the user is willing to do.
type Effort string

const (
	EffortManual        Effort = "manual"
	EffortSomeReadyMade Effort = "some_ready_made"
	EffortReadyMadeOnly Effort = "ready_made_only"
	EffortEatingOut     Effort = "eating_out"
)

// BalanceWindow is the period over which nutrition should be balanced.
type BalanceWindow string

const (
	BalanceDaily  BalanceWindow = "daily"
	BalanceWeekly BalanceWindow = "weekly"
	BalanceNone   BalanceWindow = "none"
)

// NutrientRestriction is a per-nutrient-or-ingredient exclusion or ceiling.
// Forbidden implies an effective maximum of zero regardless of MaxAmount.
type NutrientRestriction struct {
	Key       string   `json:"key"`
	Forbidden bool     `json:"forbidden"`
	MaxAmount *float64 `json:"maxAmount,omitempty"`
}

// Preferences is the canonical, fully enumerated form of the user's menu
// constraints. Restriction keys are open-ended identifiers; recognized and
// unrecognized keys travel in the same list.
type Preferences struct {
	Ingredients   string                `json:"ingredients,omitempty"`
	DishCategory  string                `json:"dishCategory,omitempty"`
	Volume        Volume                `json:"volume"`
	Effort        Effort                `json:"effort"`
	CalorieLimit  *float64              `json:"calorieLimit,omitempty"`
	BalanceWindow BalanceWindow         `json:"balanceWindow"`
	Restrictions  []NutrientRestriction `json:"restrictions,omitempty"`
}

// GenerationRequest is the normalized request handed to the generator.
type GenerationRequest struct {
	Slots       SlotList    `json:"mealPlans"`
	Preferences Preferences `json:"preferences"`
}

// Nutrient is a single named amount, e.g. protein 20 g.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Dish is one dish with its estimated calorie and nutrient breakdown.
type Dish struct {
	Name        string     `json:"name"`
	Ingredients []string   `json:"ingredients,omitempty"`
	CalorieKcal float64    `json:"calorieKcal"`
	Nutrients   []Nutrient `json:"nutrients"`
	RecipeLink  string     `json:"recipeLink,omitempty"`
}

// MealResult is one meal in the generated plan, either a logged meal with
// estimated nutrition or the suggested target meal.
type MealResult struct {
	Label               string     `json:"label"`
	Kind                SlotKind   `json:"kind"`
	Dishes              []Dish     `json:"dishes"`
	SubtotalCalorieKcal float64    `json:"subtotalCalorieKcal"`
	SubtotalNutrients   []Nutrient `json:"subtotalNutrients"`
}

// DailyPlan is a full day's menu with aggregate totals. Date is always the
// caller-supplied date; the generator's own date field is never trusted.
type DailyPlan struct {
	Date             string       `json:"date"`
	Meals            []MealResult `json:"meals"`
	TotalCalorieKcal float64      `json:"totalCalorieKcal"`
	TotalNutrients   []Nutrient   `json:"totalNutrients"`
	Rationale        string       `json:"rationale"`
}
