package services

import (
	"os"
	"strconv"

	"github.com/MarkCopeland8889/nutrisnap/models"

	"gorm.io/gorm"
)

// FreeAnalysisLimit reads the per-account estimation cap from the
// environment. 0 (or unset/garbage) disables the cap. The cap lives here,
// server-side against the authenticated account, because a client-side
// counter is trivially bypassable.
func FreeAnalysisLimit() int {
	n, err := strconv.Atoi(os.Getenv("FREE_ANALYSIS_LIMIT"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CheckAnalysisQuota returns ErrAnalysisLimitReached once the account has
// spent its free analyses.
func CheckAnalysisQuota(db *gorm.DB, userID uint) error {
	limit := FreeAnalysisLimit()
	if limit == 0 {
		return nil
	}
	var user models.User
	if err := db.Select("analysis_count").First(&user, userID).Error; err != nil {
		return err
	}
	if user.AnalysisCount >= limit {
		return ErrAnalysisLimitReached
	}
	return nil
}

// IncrementAnalysisCount bumps the counter after a successful analysis.
// Concurrent submissions race benignly; the expression keeps the increment
// atomic at the database.
func IncrementAnalysisCount(db *gorm.DB, userID uint) error {
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("analysis_count", gorm.Expr("analysis_count + 1")).Error
}
