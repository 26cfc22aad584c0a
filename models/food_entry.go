package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FoodEntry is one logged meal in a user's ledger. LoggedAt is assigned by
// the server at insert time and survives edits unchanged; the ledger is
// strictly per-user, so every query on this table is scoped by UserID.
type FoodEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index:idx_food_entries_user_logged;not null" json:"user_id"`
	LoggedAt time.Time `gorm:"index:idx_food_entries_user_logged;not null" json:"logged_at"`

	TotalCalories float64 `json:"total_calories"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatG          float64 `json:"fat_g"`

	Ingredients datatypes.JSONSlice[string] `json:"ingredients"`
	Warnings    datatypes.JSONSlice[string] `json:"warnings"`

	OriginalTextInput string `gorm:"type:text" json:"original_text_input,omitempty"`
	OriginalImageURL  string `json:"original_image_url,omitempty"`
}
