package services

import (
	"errors"
	"math"
	"testing"
)

func validProfile() ProfileInput {
	return ProfileInput{
		Sex:            "female",
		Age:            30,
		HeightCm:       165,
		WeightKg:       60,
		ActivityFactor: 1.375,
		Objective:      "maintain",
	}
}

// TestCalculateGoals_ReferenceProfile pins the documented reference case:
// bmr = 10*60 + 6.25*165 - 5*30 - 161 = 1435.25, tdee ≈ 1973.47.
func TestCalculateGoals_ReferenceProfile(t *testing.T) {
	goals, err := CalculateGoals(validProfile(), DefaultMacroSplit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if goals.DailyCalorieGoal != 1973 {
		t.Errorf("calorie goal = %d, want 1973", goals.DailyCalorieGoal)
	}
	if goals.DailyCarbGoal != 197 {
		t.Errorf("carb goal = %d, want 197", goals.DailyCarbGoal)
	}
	if goals.DailyProteinGoal != 148 {
		t.Errorf("protein goal = %d, want 148", goals.DailyProteinGoal)
	}
	if goals.DailyFatGoal != 66 {
		t.Errorf("fat goal = %d, want 66", goals.DailyFatGoal)
	}
}

// TestCalculateGoals_InvalidInput verifies that bad numeric inputs are
// rejected outright with no partial computation.
func TestCalculateGoals_InvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *ProfileInput)
	}{
		{"zero age", func(p *ProfileInput) { p.Age = 0 }},
		{"negative age", func(p *ProfileInput) { p.Age = -5 }},
		{"zero height", func(p *ProfileInput) { p.HeightCm = 0 }},
		{"negative height", func(p *ProfileInput) { p.HeightCm = -170 }},
		{"zero weight", func(p *ProfileInput) { p.WeightKg = 0 }},
		{"NaN weight", func(p *ProfileInput) { p.WeightKg = math.NaN() }},
		{"infinite height", func(p *ProfileInput) { p.HeightCm = math.Inf(1) }},
		{"unknown activity factor", func(p *ProfileInput) { p.ActivityFactor = 1.6 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutFn(&p)
			if _, err := CalculateGoals(p, DefaultMacroSplit); !errors.Is(err, ErrInvalidProfileInput) {
				t.Errorf("expected ErrInvalidProfileInput, got %v", err)
			}
		})
	}
}

// TestCalculateGoals_LoseFloors verifies the 1200/1500 kcal floors after the
// weight-loss deficit.
func TestCalculateGoals_LoseFloors(t *testing.T) {
	female := ProfileInput{Sex: "female", Age: 40, HeightCm: 150, WeightKg: 45, ActivityFactor: 1.2, Objective: "lose"}
	goals, err := CalculateGoals(female, DefaultMacroSplit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if goals.DailyCalorieGoal != 1200 {
		t.Errorf("female lose floor: calorie goal = %d, want 1200", goals.DailyCalorieGoal)
	}

	male := ProfileInput{Sex: "male", Age: 60, HeightCm: 160, WeightKg: 50, ActivityFactor: 1.2, Objective: "lose"}
	goals, err = CalculateGoals(male, DefaultMacroSplit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if goals.DailyCalorieGoal != 1500 {
		t.Errorf("male lose floor: calorie goal = %d, want 1500", goals.DailyCalorieGoal)
	}
}

// TestCalculateGoals_MaintainEqualsTDEE: for maintain, the calorie goal is
// exactly round(bmr * activityFactor).
func TestCalculateGoals_MaintainEqualsTDEE(t *testing.T) {
	cases := []ProfileInput{
		{Sex: "male", Age: 30, HeightCm: 180, WeightKg: 80, ActivityFactor: 1.55, Objective: "maintain"},
		{Sex: "female", Age: 25, HeightCm: 160, WeightKg: 55, ActivityFactor: 1.2, Objective: "maintain"},
		{Sex: "male", Age: 45, HeightCm: 175, WeightKg: 90, ActivityFactor: 1.9, Objective: "maintain"},
	}

	for _, p := range cases {
		goals, err := CalculateGoals(p, DefaultMacroSplit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
		if p.Sex == "male" {
			bmr += 5
		} else {
			bmr -= 161
		}
		want := int(math.Round(bmr * p.ActivityFactor))
		if goals.DailyCalorieGoal != want {
			t.Errorf("maintain %+v: calorie goal = %d, want %d", p, goals.DailyCalorieGoal, want)
		}
	}
}

// TestCalculateGoals_MacroEnergyBalance: independently rounded macros still
// sum back to the calorie goal within a few kcal.
func TestCalculateGoals_MacroEnergyBalance(t *testing.T) {
	cases := []ProfileInput{
		{Sex: "female", Age: 30, HeightCm: 165, WeightKg: 60, ActivityFactor: 1.375, Objective: "maintain"},
		{Sex: "male", Age: 30, HeightCm: 180, WeightKg: 80, ActivityFactor: 1.55, Objective: "gain"},
		{Sex: "female", Age: 40, HeightCm: 150, WeightKg: 45, ActivityFactor: 1.2, Objective: "lose"},
		{Sex: "male", Age: 22, HeightCm: 190, WeightKg: 85, ActivityFactor: 1.725, Objective: "maintain"},
	}

	for _, p := range cases {
		goals, err := CalculateGoals(p, DefaultMacroSplit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		kcalFromMacros := goals.DailyProteinGoal*4 + goals.DailyCarbGoal*4 + goals.DailyFatGoal*9
		if diff := int(math.Abs(float64(kcalFromMacros - goals.DailyCalorieGoal))); diff > 3 {
			t.Errorf("%+v: macros sum to %d kcal vs goal %d (drift %d)", p, kcalFromMacros, goals.DailyCalorieGoal, diff)
		}
	}
}
