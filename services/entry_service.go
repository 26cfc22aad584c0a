package services

import (
	"errors"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntryService is the ledger behind the aggregators: append-only inserts,
// point lookups, full-overwrite edits and idempotent deletes, all scoped by
// the owning user.
type EntryService struct {
	db *gorm.DB
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{db: db}
}

// EntryFields is the full set of caller-editable fields. Update overwrites
// all of them; LoggedAt is deliberately absent.
type EntryFields struct {
	TotalCalories     float64  `json:"total_calories"`
	ProteinG          float64  `json:"protein_g"`
	CarbsG            float64  `json:"carbs_g"`
	FatG              float64  `json:"fat_g"`
	Ingredients       []string `json:"ingredients"`
	Warnings          []string `json:"warnings"`
	OriginalTextInput string   `json:"original_text_input"`
	OriginalImageURL  string   `json:"original_image_url"`
}

// Insert creates a ledger entry. LoggedAt is assigned server-side when the
// caller passes the zero time. Numeric fields are clamped at 0 so a partial
// estimate can never persist a negative nutrient.
func (s *EntryService) Insert(userID uint, f EntryFields, loggedAt time.Time) (*models.FoodEntry, error) {
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}
	e := &models.FoodEntry{
		UserID:            userID,
		LoggedAt:          loggedAt,
		TotalCalories:     clampNonNegative(f.TotalCalories),
		ProteinG:          clampNonNegative(f.ProteinG),
		CarbsG:            clampNonNegative(f.CarbsG),
		FatG:              clampNonNegative(f.FatG),
		Ingredients:       orEmpty(f.Ingredients),
		Warnings:          orEmpty(f.Warnings),
		OriginalTextInput: f.OriginalTextInput,
		OriginalImageURL:  f.OriginalImageURL,
	}
	if err := s.db.Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EntryService) Get(userID, entryID uint) (*models.FoodEntry, error) {
	var e models.FoodEntry
	err := s.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Update overwrites every editable field of an existing entry. LoggedAt is
// preserved from the original insert. Missing entries are fatal here, unlike
// Delete.
func (s *EntryService) Update(userID, entryID uint, f EntryFields) (*models.FoodEntry, error) {
	e, err := s.Get(userID, entryID)
	if err != nil {
		return nil, err
	}

	e.TotalCalories = clampNonNegative(f.TotalCalories)
	e.ProteinG = clampNonNegative(f.ProteinG)
	e.CarbsG = clampNonNegative(f.CarbsG)
	e.FatG = clampNonNegative(f.FatG)
	e.Ingredients = orEmpty(f.Ingredients)
	e.Warnings = orEmpty(f.Warnings)
	e.OriginalTextInput = f.OriginalTextInput
	e.OriginalImageURL = f.OriginalImageURL

	if err := s.db.Save(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an entry. Deleting an id that no longer exists is not an
// error; repeat deletes from a second session are expected.
func (s *EntryService) Delete(userID, entryID uint) error {
	return s.db.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.FoodEntry{}).Error
}

// ListRange returns all entries with LoggedAt in [from, to], both inclusive.
// No ordering is guaranteed here; consumers impose their own.
func (s *EntryService) ListRange(userID uint, from, to time.Time) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.
		Where("user_id = ? AND logged_at >= ? AND logged_at <= ?", userID, from, to).
		Find(&entries).Error
	return entries, err
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func orEmpty(s []string) datatypes.JSONSlice[string] {
	if s == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](s)
}
