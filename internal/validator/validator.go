package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrAccountNameMissing = errors.New("account name is required")
	ErrInvalidPhone       = errors.New("please enter a valid 10-digit phone number")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	phoneRegex    = regexp.MustCompile(`^[0-9]{10}$`)
)

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrAccountNameMissing
	}
	return nil
}

// ValidatePhone accepts an empty phone number; anything else must be exactly
// ten digits.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}
