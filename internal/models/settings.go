package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/extrasite-backend/internal/domain/fee"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// PlatformSettings - единственная строка platform_settings.
type PlatformSettings struct {
	TakeRate                float64    `db:"take_rate" json:"take_rate"`
	CancellationWindowHours int        `db:"cancellation_window_hours" json:"cancellation_window_hours"`
	RateWaiter              float64    `db:"rate_garcom" json:"rate_garcom"`
	RateBartender           float64    `db:"rate_bartender" json:"rate_bartender"`
	RateEvents              float64    `db:"rate_organizacao" json:"rate_organizacao"`
	PlatformName            string     `db:"platform_name" json:"platform_name"`
	PlatformCity            string     `db:"platform_city" json:"platform_city"`
	TermsOfUse              string     `db:"terms_of_use" json:"terms_of_use"`
	PrivacyPolicy           string     `db:"privacy_policy" json:"privacy_policy"`
	CancellationPolicy      string     `db:"cancellation_policy" json:"cancellation_policy"`
	UpdatedBy               *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}

// Fee возвращает снимок для калькулятора комиссий.
func (s PlatformSettings) Fee() fee.Settings {
	return fee.Settings{
		TakeRate:                s.TakeRate,
		CancellationWindowHours: s.CancellationWindowHours,
		Rates: fee.RateTable{
			vo.CategoryWaiter:    s.RateWaiter,
			vo.CategoryBartender: s.RateBartender,
			vo.CategoryEvents:    s.RateEvents,
		},
	}
}
