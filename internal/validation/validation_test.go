package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCNPJ(t *testing.T) {
	assert.NoError(t, ValidateCNPJ("11.222.333/0001-81"))
	assert.NoError(t, ValidateCNPJ("11222333000181"))
	assert.Error(t, ValidateCNPJ("11.222.333/0001-82"))
	assert.Error(t, ValidateCNPJ("11111111111111"))
	assert.Error(t, ValidateCNPJ("123"))
}

func TestCompleteCNPJ(t *testing.T) {
	assert.Equal(t, "11222333000181", CompleteCNPJ("112223330001"))
	assert.NoError(t, ValidateCNPJ(CompleteCNPJ("450123780001")))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("  Joao.Silva@UTFPR.edu.br "))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("joao@"))
	assert.Error(t, ValidateEmail("joao@localhost"))
	assert.Error(t, ValidateEmail("jo ao@mail.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("extra2026"))
	assert.Error(t, ValidatePassword("curta1"))
	assert.Error(t, ValidatePassword("semnumeros"))
	assert.Error(t, ValidatePassword("1234567890"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("(45) 99999-1234"))
	assert.NoError(t, ValidatePhone("4532641234"))
	assert.Error(t, ValidatePhone("99999-1234"))
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("título", "Garçom", 3, 10))
	assert.Error(t, ValidateLength("título", "ab", 3, 10))
	assert.Error(t, ValidateLength("título", "abcdefghijk", 3, 10))
}
