package services

import (
	"errors"
	"sort"

	"github.com/kondate-app/menu-helper/internal/domain"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
)

// ComposePlan recomputes every aggregate in the plan from the leaf dishes.
// The generator's reported subtotals and totals are discarded: it is not
// guaranteed to be arithmetically consistent, and this recomputation is the
// main correctness guarantee layered on top of it.
//
// Nutrients are matched by exact, case-sensitive name. If the same name
// appears under two different units anywhere in the plan the composition
// fails rather than guessing a conversion. Output nutrient lists are sorted
// by name, which makes composition idempotent and independent of dish order.
func ComposePlan(plan *domain.DailyPlan) (*domain.DailyPlan, error) {
	if plan == nil {
		return nil, apperrors.NewInternalError(errors.New("nil plan"))
	}

	units := make(map[string]string) // nutrient name -> unit, across the whole plan

	composed := &domain.DailyPlan{
		Date:      plan.Date,
		Rationale: plan.Rationale,
		Meals:     make([]domain.MealResult, 0, len(plan.Meals)),
	}

	totalCal := 0.0
	totalNutrients := make(map[string]float64)

	for _, meal := range plan.Meals {
		subCal := 0.0
		subNutrients := make(map[string]float64)

		for _, dish := range meal.Dishes {
			subCal += dish.CalorieKcal
			for _, n := range dish.Nutrients {
				if unit, seen := units[n.Name]; seen && unit != n.Unit {
					return nil, apperrors.NewInconsistentUnitsError(n.Name, unit, n.Unit)
				} else if !seen {
					units[n.Name] = n.Unit
				}
				subNutrients[n.Name] += n.Amount
				totalNutrients[n.Name] += n.Amount
			}
		}

		composed.Meals = append(composed.Meals, domain.MealResult{
			Label:               meal.Label,
			Kind:                meal.Kind,
			Dishes:              meal.Dishes,
			SubtotalCalorieKcal: subCal,
			SubtotalNutrients:   nutrientList(subNutrients, units),
		})
		totalCal += subCal
	}

	composed.TotalCalorieKcal = totalCal
	composed.TotalNutrients = nutrientList(totalNutrients, units)

	return composed, nil
}

func nutrientList(amounts map[string]float64, units map[string]string) []domain.Nutrient {
	if len(amounts) == 0 {
		return nil
	}
	out := make([]domain.Nutrient, 0, len(amounts))
	for name, amount := range amounts {
		out = append(out, domain.Nutrient{Name: name, Amount: amount, Unit: units[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
