package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength        = 2
	MaxNameLength        = 120
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
	MaxBioLength         = 1000
	MaxSkillsLength      = 1000
	MaxMessageLength     = 2000
	MaxCommentLength     = 1000
	MaxReasonLength      = 500
	MaxPixKeyLength      = 140
	MaxPolicyLength      = 50000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	nonDigitRegex    = regexp.MustCompile(`\D`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s deve ter pelo menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s deve ter no máximo %d caracteres", fieldName, max)
	}
	return nil
}

// NormalizeEmail приводит email к нижнему регистру без пробелов.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email é obrigatório")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("formato de email inválido")
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 || !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("formato de email inválido")
	}
	if len(domain) > 255 || !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("domínio de email inválido")
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s é obrigatório", fieldName)
	}
	return nil
}

// ValidateName проверяет имя человека или компании.
func ValidateName(fieldName, name string) error {
	if err := ValidateNonEmpty(fieldName, name); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateOptional проверяет длину необязательного поля.
func ValidateOptional(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

// DigitsOnly убирает из строки всё, кроме цифр.
func DigitsOnly(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// ValidatePhone - телефон с DDD: 10 или 11 цифр.
func ValidatePhone(phone string) error {
	digits := DigitsOnly(phone)
	if len(digits) != 10 && len(digits) != 11 {
		return fmt.Errorf("telefone deve ter DDD e 8 ou 9 dígitos")
	}
	return nil
}

// ValidateCNPJ проверяет длину и контрольные цифры CNPJ.
func ValidateCNPJ(cnpj string) error {
	digits := DigitsOnly(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("CNPJ deve ter 14 dígitos")
	}
	if strings.Count(digits, digits[:1]) == 14 {
		return fmt.Errorf("CNPJ inválido")
	}

	if CompleteCNPJ(digits[:12]) != digits {
		return fmt.Errorf("CNPJ inválido")
	}
	return nil
}

// CompleteCNPJ дописывает к 12 цифрам базы две контрольные. Нужен сидеру демо-данных.
func CompleteCNPJ(base string) string {
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	withFirst := base + string(rune('0'+cnpjDigit(base, weights1)))
	return withFirst + string(rune('0'+cnpjDigit(withFirst, weights2)))
}

func cnpjDigit(base string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(base[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// ValidateState - сигла штата из двух букв.
func ValidateState(state string) error {
	if len(strings.TrimSpace(state)) != 2 {
		return fmt.Errorf("estado deve ser a sigla com 2 letras")
	}
	return nil
}
