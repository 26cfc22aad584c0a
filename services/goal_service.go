package services

import (
	"math"

	"github.com/MarkCopeland8889/nutrisnap/models"
)

// MacroSplit is the fraction of daily calories assigned to each macro.
// The default mirrors the product's 40/30/30 policy; it is a value passed
// through CalculateGoals, not a hardcoded law.
type MacroSplit struct {
	CarbPct    float64
	ProteinPct float64
	FatPct     float64
}

var DefaultMacroSplit = MacroSplit{CarbPct: 0.40, ProteinPct: 0.30, FatPct: 0.30}

// Calorie floors applied after the weight-loss deficit.
const (
	minCaloriesFemale = 1200
	minCaloriesMale   = 1500
	objectiveDelta    = 500 // kcal added/removed for gain/lose
)

// activityFactors is the single source of truth for valid activity levels.
var activityFactors = map[float64]bool{
	1.2:   true,
	1.375: true,
	1.55:  true,
	1.725: true,
	1.9:   true,
}

type ProfileInput struct {
	Sex            string  `json:"sex" binding:"required,oneof=male female"`
	Age            int     `json:"age" binding:"required"`
	HeightCm       float64 `json:"height_cm" binding:"required"`
	WeightKg       float64 `json:"weight_kg" binding:"required"`
	ActivityFactor float64 `json:"activity_factor" binding:"required"`
	Objective      string  `json:"objective" binding:"required,oneof=lose maintain gain"`
}

// CalculateGoals maps profile inputs to daily targets.
//
// BMR via Mifflin-St Jeor (male +5, female -161), TDEE = BMR * activity
// factor, then the objective adjustment: lose subtracts 500 kcal floored at
// 1200 (female) / 1500 (male), gain adds 500, maintain leaves TDEE as is.
// Macro grams are derived from the rounded calorie goal and rounded
// independently, so the grams do not reconcile exactly back to the calorie
// goal (residual drift of a few kcal is accepted).
func CalculateGoals(in ProfileInput, split MacroSplit) (models.NutritionGoals, error) {
	if in.Age <= 0 || in.HeightCm <= 0 || in.WeightKg <= 0 {
		return models.NutritionGoals{}, ErrInvalidProfileInput
	}
	if math.IsNaN(in.HeightCm) || math.IsInf(in.HeightCm, 0) ||
		math.IsNaN(in.WeightKg) || math.IsInf(in.WeightKg, 0) {
		return models.NutritionGoals{}, ErrInvalidProfileInput
	}
	if !activityFactors[in.ActivityFactor] {
		return models.NutritionGoals{}, ErrInvalidProfileInput
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if in.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := bmr * in.ActivityFactor

	calories := tdee
	switch in.Objective {
	case "lose":
		calories = tdee - objectiveDelta
		if in.Sex == "female" && calories < minCaloriesFemale {
			calories = minCaloriesFemale
		}
		if in.Sex == "male" && calories < minCaloriesMale {
			calories = minCaloriesMale
		}
	case "gain":
		calories = tdee + objectiveDelta
	}

	calorieGoal := int(math.Round(calories))
	return models.NutritionGoals{
		DailyCalorieGoal: calorieGoal,
		DailyCarbGoal:    int(math.Round(float64(calorieGoal) * split.CarbPct / 4)),
		DailyProteinGoal: int(math.Round(float64(calorieGoal) * split.ProteinPct / 4)),
		DailyFatGoal:     int(math.Round(float64(calorieGoal) * split.FatPct / 9)),
	}, nil
}
