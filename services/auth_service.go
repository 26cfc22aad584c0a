package services

import (
	"errors"
	"time"

	"github.com/MarkCopeland8889/nutrisnap/config"
	"github.com/MarkCopeland8889/nutrisnap/models"
	"github.com/MarkCopeland8889/nutrisnap/utils"
)

// RegisterUser creates an account with onboarding still pending; goals stay
// empty until the profile is first submitted.
func RegisterUser(email, password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashed,
	}
	return config.DB.Create(&user).Error
}

// AuthenticateUser verifies credentials and mints a session token.
func AuthenticateUser(email, password string) (string, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("invalid email or password")
	}
	return utils.GenerateJWT(user.ID, user.Email)
}

// StartPasswordReset stores a short-lived code and emails it. The response
// is identical whether or not the account exists; callers must not leak
// that difference.
func StartPasswordReset(email string) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return
	}

	code := utils.GenerateRandomToken(6)
	user.ResetToken = code
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	config.DB.Save(&user)

	if err := utils.SendResetEmail(user.Email, code); err != nil {
		// the code is still valid; the user can retry the email flow
		return
	}
}

// CompletePasswordReset exchanges a valid code for a new password.
func CompletePasswordReset(code, newPassword string) error {
	var user models.User
	if err := config.DB.Where("reset_token = ?", code).First(&user).Error; err != nil {
		return errors.New("invalid or expired code")
	}
	if user.ResetToken == "" || time.Now().After(user.ResetTokenExp) {
		return errors.New("invalid or expired code")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return config.DB.Save(&user).Error
}
