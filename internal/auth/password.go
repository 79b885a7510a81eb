package auth

import (
	"regexp"
	"unicode/utf8"

	"github.com/ReviveFitness/RF-Backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols is the fixed set a password must draw at least one symbol from.
const PasswordSymbols = `!@#$%^&*+=?_-.`

var (
	hasUpper      = regexp.MustCompile(`[A-Z]`)
	hasLower      = regexp.MustCompile(`[a-z]`)
	hasDigit      = regexp.MustCompile(`[0-9]`)
	hasSymbol     = regexp.MustCompile(`[!@#$%^&*+=?_.\-]`)
	hasWhitespace = regexp.MustCompile(`\s`)
)

// ErrWeakPassword is returned for passwords that fail the policy.
var ErrWeakPassword = apperr.Validation("%s",
	"Password must be at least 8 characters long and contain at least one uppercase letter, "+
		"one lowercase letter, one number, and one special character ("+PasswordSymbols+").")

func PasswordMeetsPolicy(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		!hasWhitespace.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasLower.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSymbol.MatchString(password)
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares in constant time via bcrypt.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
