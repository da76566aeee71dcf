// Package fee считает рекомендуемую оплату, комиссию платформы и сумму к выплате.
// Все функции чистые: настройки передаются явно.
package fee

import (
	"math"

	"github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

// RateTable - ставка в час по категориям.
type RateTable map[valueobject.Category]float64

// Settings - снимок платформенных настроек, нужных калькулятору.
type Settings struct {
	TakeRate                float64
	CancellationWindowHours int
	Rates                   RateTable
}

// DefaultSettings - значения по умолчанию платформы.
func DefaultSettings() Settings {
	return Settings{
		TakeRate:                0.15,
		CancellationWindowHours: 48,
		Rates: RateTable{
			valueobject.CategoryWaiter:    15,
			valueobject.CategoryBartender: 20,
			valueobject.CategoryEvents:    18,
		},
	}
}

// ValidateTakeRate проверяет, что комиссия лежит в [0,1].
func ValidateTakeRate(takeRate float64) error {
	if math.IsNaN(takeRate) || takeRate < 0 || takeRate > 1 {
		return apperror.New(apperror.ErrCodeValidation, "a taxa da plataforma deve estar entre 0% e 100%")
	}
	return nil
}

func (s Settings) Validate() error {
	if err := ValidateTakeRate(s.TakeRate); err != nil {
		return err
	}
	if s.CancellationWindowHours < 0 {
		return apperror.New(apperror.ErrCodeValidation, "a janela de cancelamento deve ser positiva")
	}
	for category, rate := range s.Rates {
		if !category.IsValid() {
			return apperror.Newf(apperror.ErrCodeValidation, "categoria inválida: %q", category)
		}
		if rate < 0 || math.IsNaN(rate) {
			return apperror.Newf(apperror.ErrCodeValidation, "valor por hora inválido para %s", category.DisplayName())
		}
	}
	return nil
}

// DurationHours - длительность смены в часах, с дробной частью.
func DurationHours(start, end valueobject.TimeOfDay) float64 {
	return valueobject.TimeWindow{Start: start, End: end}.DurationHours()
}

// SuggestedValue = ставка категории * длительность в часах.
func SuggestedValue(category valueobject.Category, durationHours float64, rates RateTable) (float64, error) {
	rate, ok := rates[category]
	if !ok {
		return 0, apperror.Newf(apperror.ErrCodeValidation, "sem valor por hora para a categoria %q", category)
	}
	if durationHours < 0 {
		return 0, apperror.New(apperror.ErrCodeValidation, "duração negativa")
	}
	return rate * durationHours, nil
}

// NetPay - сколько получает соискатель после комиссии.
func NetPay(gross, takeRate float64) float64 {
	return gross * (1 - takeRate)
}

// PlatformFee - комиссия платформы.
func PlatformFee(gross, takeRate float64) float64 {
	return gross * takeRate
}

// Quote - полный расчёт для одной вакансии.
type Quote struct {
	DurationHours  float64 `json:"duration_hours"`
	SuggestedValue float64 `json:"suggested_value"`
	Gross          float64 `json:"gross"`
	NetPay         float64 `json:"net_pay"`
	PlatformFee    float64 `json:"platform_fee"`
	TakeRate       float64 `json:"take_rate"`
}

// NewQuote считает рекомендуемую оплату по окну времени и разбивку gross.
func NewQuote(category valueobject.Category, window valueobject.TimeWindow, gross float64, s Settings) (Quote, error) {
	if err := ValidateTakeRate(s.TakeRate); err != nil {
		return Quote{}, err
	}
	if err := window.Validate(); err != nil {
		return Quote{}, err
	}

	hours := window.DurationHours()
	suggested, err := SuggestedValue(category, hours, s.Rates)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		DurationHours:  hours,
		SuggestedValue: suggested,
		Gross:          gross,
		NetPay:         NetPay(gross, s.TakeRate),
		PlatformFee:    PlatformFee(gross, s.TakeRate),
		TakeRate:       s.TakeRate,
	}, nil
}
