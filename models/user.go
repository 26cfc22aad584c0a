package models

import (
	"time"

	"gorm.io/gorm"
)

// NutritionGoals are the daily targets derived from the profile by the goal
// calculator. They are cached on the user row and only change when the
// profile is resubmitted.
type NutritionGoals struct {
	DailyCalorieGoal int `json:"daily_calorie_goal"`
	DailyProteinGoal int `json:"daily_protein_goal"`
	DailyCarbGoal    int `json:"daily_carb_goal"`
	DailyFatGoal     int `json:"daily_fat_goal"`
}

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Goal calculator inputs
	Sex            string  `gorm:"size:8" json:"sex"` // "male" | "female"
	Age            int     `json:"age"`               // years
	HeightCm       float64 `json:"height_cm"`
	WeightKg       float64 `json:"weight_kg"`
	ActivityFactor float64 `json:"activity_factor"`          // 1.2 | 1.375 | 1.55 | 1.725 | 1.9
	Objective      string  `gorm:"size:10" json:"objective"` // "lose" | "maintain" | "gain"

	OnboardingComplete bool           `json:"onboarding_complete"`
	Goals              NutritionGoals `gorm:"embedded;embeddedPrefix:goal_" json:"goals"`

	// Lifetime count of estimation calls, for the server-side free-use cap
	AnalysisCount int `json:"-"`

	ResetToken    string    `json:"-"`
	ResetTokenExp time.Time `json:"-"`
}
