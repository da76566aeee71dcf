package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

const CurrencyBRL = "BRL"

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "o valor não pode ser negativo")
	}
	if currency == "" {
		currency = CurrencyBRL
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewPayment - оплата за слот должна быть строго положительной.
func NewPayment(amount float64) (Money, error) {
	m, err := NewMoney(amount, CurrencyBRL)
	if err != nil {
		return Money{}, err
	}
	if m.Amount == 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "o valor do pagamento deve ser maior que zero")
	}
	return m, nil
}

// Rounded округляет до центавов. Только для отображения, в расчётах не используется.
func (m Money) Rounded() float64 {
	return math.Round(m.Amount*100) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("R$ %.2f", m.Amount)
}
