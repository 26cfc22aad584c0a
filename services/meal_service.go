package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/models"
	"github.com/MarkCopeland8889/nutrisnap/utils"

	"gorm.io/gorm"
)

// MealService orchestrates the analyze-and-log cycle: quota check, optional
// photo context and upload, one estimation call, one ledger insert. An entry
// is created exactly once per successful estimation and never partially.
type MealService struct {
	db      *gorm.DB
	entries *EntryService
	gemini  *GeminiService
	rek     *RekognitionService // optional; nil disables photo labels
}

func NewMealService(db *gorm.DB, entries *EntryService, gemini *GeminiService, rek *RekognitionService) *MealService {
	return &MealService{db: db, entries: entries, gemini: gemini, rek: rek}
}

type AnalyzeRequest struct {
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64"` // raw base64, no data-URI prefix
	ImageMime   string `json:"image_mime"`
}

// AnalyzeAndLog estimates the meal and appends it to the user's ledger.
// The estimation has no cancellation path once dispatched and is never
// retried; any failure leaves the ledger untouched.
func (s *MealService) AnalyzeAndLog(ctx context.Context, userID uint, req AnalyzeRequest) (*models.FoodEntry, *MealAnalysis, error) {
	if strings.TrimSpace(req.Description) == "" && req.ImageBase64 == "" {
		return nil, nil, errors.New("describe the meal or attach an image")
	}
	if err := CheckAnalysisQuota(s.db, userID); err != nil {
		return nil, nil, err
	}

	description := req.Description
	if req.ImageBase64 != "" && s.rek != nil {
		// extra context for the model; failures here are non-fatal
		if labels, err := s.rek.DetectLabels(ctx, req.ImageBase64); err == nil && len(labels) > 0 {
			description = strings.TrimSpace(
				description + " (detected in photo: " + strings.Join(labels, ", ") + ")")
		}
	}

	analysis, err := s.gemini.AnalyzeMeal(ctx, description, req.ImageBase64, req.ImageMime)
	if err != nil {
		return nil, nil, err
	}

	var imageURL string
	if req.ImageBase64 != "" {
		url, err := utils.UploadMealImage(req.ImageBase64, req.ImageMime, fmt.Sprintf("user-%d", userID))
		if err != nil {
			// the estimate is the product; log without the photo reference
			log.Printf("meal image upload failed for user %d: %v", userID, err)
		} else {
			imageURL = url
		}
	}

	entry, err := s.entries.Insert(userID, EntryFields{
		TotalCalories:     analysis.TotalCalories,
		ProteinG:          analysis.Macros.ProteinG,
		CarbsG:            analysis.Macros.CarbsG,
		FatG:              analysis.Macros.FatG,
		Ingredients:       analysis.Ingredients,
		Warnings:          analysis.Warnings,
		OriginalTextInput: req.Description,
		OriginalImageURL:  imageURL,
	}, time.Time{})
	if err != nil {
		return nil, nil, err
	}

	if err := IncrementAnalysisCount(s.db, userID); err != nil {
		log.Printf("analysis counter update failed for user %d: %v", userID, err)
	}

	if len(analysis.Warnings) > 0 {
		EmitAlert(userID, "warning", strings.Join(analysis.Warnings, "; "))
	}
	EmitEvent(userID, "meal.logged", entry)

	return entry, analysis, nil
}

// DeleteMeal removes a ledger entry and notifies listeners. A repeat delete
// is a no-op, matching the store's idempotent contract.
func (s *MealService) DeleteMeal(userID, entryID uint) error {
	if err := s.entries.Delete(userID, entryID); err != nil {
		return err
	}
	EmitEvent(userID, "meal.deleted", map[string]uint{"id": entryID})
	return nil
}
