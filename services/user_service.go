package services

import (
	"errors"

	"github.com/MarkCopeland8889/nutrisnap/config"
	"github.com/MarkCopeland8889/nutrisnap/models"

	"gorm.io/gorm"
)

func GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// SaveProfile validates the submitted profile, recomputes goals and marks
// onboarding complete — the same path serves first-time onboarding and later
// edits. On validation failure nothing is written; the prior profile and
// goals stand.
func SaveProfile(userID uint, in ProfileInput) (*models.User, error) {
	goals, err := CalculateGoals(in, DefaultMacroSplit)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	user.Sex = in.Sex
	user.Age = in.Age
	user.HeightCm = in.HeightCm
	user.WeightKg = in.WeightKg
	user.ActivityFactor = in.ActivityFactor
	user.Objective = in.Objective
	user.Goals = goals
	user.OnboardingComplete = true

	if err := config.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the profile and everything keyed to it — food
// entries and alerts go in the same transaction, so no orphaned per-user
// data survives the profile row.
func DeleteAccount(userID uint) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.FoodEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
}
