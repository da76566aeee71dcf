package validation

import (
	"fmt"
	"unicode"
)

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 8

// ValidatePassword требует минимум 8 символов, хотя бы одну букву и одну цифру.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("a senha deve ter pelo menos %d caracteres", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("a senha deve conter pelo menos uma letra")
	}
	if !hasNumber {
		return fmt.Errorf("a senha deve conter pelo menos um número")
	}
	return nil
}
