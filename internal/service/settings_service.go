package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ignatzorin/extrasite-backend/internal/cache"
	"github.com/ignatzorin/extrasite-backend/internal/domain/fee"
	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/logger"
	"github.com/ignatzorin/extrasite-backend/internal/models"
	"github.com/ignatzorin/extrasite-backend/internal/validation"
)

// SettingsRepository - хранилище единственной строки настроек.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Save(ctx context.Context, s *models.PlatformSettings) error
	EnsureDefaults(ctx context.Context, defaults *models.PlatformSettings) (*models.PlatformSettings, error)
}

// SettingsProvider отдаёт текущий снимок настроек другим сервисам.
type SettingsProvider interface {
	Current() models.PlatformSettings
}

// SettingsService держит настройки платформы в памяти и в БД.
type SettingsService struct {
	repo     SettingsRepository
	cache    cache.Store
	snapshot atomic.Pointer[models.PlatformSettings]
}

// NewSettingsService создаёт сервис со снимком defaults до первой загрузки.
func NewSettingsService(repo SettingsRepository, store cache.Store, defaults models.PlatformSettings) *SettingsService {
	s := &SettingsService{repo: repo, cache: store}
	s.snapshot.Store(&defaults)
	return s
}

// Load создаёт строку настроек при первом запуске и читает актуальные значения.
func (s *SettingsService) Load(ctx context.Context) error {
	defaults := s.Current()
	loaded, err := s.repo.EnsureDefaults(ctx, &defaults)
	if err != nil {
		return translate(err)
	}
	s.snapshot.Store(loaded)
	return nil
}

// Current возвращает копию текущего снимка.
func (s *SettingsService) Current() models.PlatformSettings {
	return *s.snapshot.Load()
}

// UpdateSettingsInput - все редактируемые поля.
type UpdateSettingsInput struct {
	TakeRate                float64 `json:"take_rate"`
	CancellationWindowHours int     `json:"cancellation_window_hours"`
	RateWaiter              float64 `json:"rate_garcom"`
	RateBartender           float64 `json:"rate_bartender"`
	RateEvents              float64 `json:"rate_organizacao"`
	PlatformName            string  `json:"platform_name"`
	PlatformCity            string  `json:"platform_city"`
	TermsOfUse              string  `json:"terms_of_use"`
	PrivacyPolicy           string  `json:"privacy_policy"`
	CancellationPolicy      string  `json:"cancellation_policy"`
}

// Update проверяет и сохраняет настройки, затем подменяет снимок.
func (s *SettingsService) Update(ctx context.Context, adminID uuid.UUID, in UpdateSettingsInput) (*models.PlatformSettings, error) {
	next := models.PlatformSettings{
		TakeRate:                in.TakeRate,
		CancellationWindowHours: in.CancellationWindowHours,
		RateWaiter:              in.RateWaiter,
		RateBartender:           in.RateBartender,
		RateEvents:              in.RateEvents,
		PlatformName:            strings.TrimSpace(in.PlatformName),
		PlatformCity:            strings.TrimSpace(in.PlatformCity),
		TermsOfUse:              in.TermsOfUse,
		PrivacyPolicy:           in.PrivacyPolicy,
		CancellationPolicy:      in.CancellationPolicy,
		UpdatedBy:               &adminID,
	}

	if err := next.Fee().Validate(); err != nil {
		return nil, err
	}
	if err := firstError(
		validation.ValidateNonEmpty("nome da plataforma", next.PlatformName),
		validation.ValidateNonEmpty("cidade", next.PlatformCity),
		validation.ValidateLength("termos de uso", next.TermsOfUse, 0, validation.MaxPolicyLength),
		validation.ValidateLength("política de privacidade", next.PrivacyPolicy, 0, validation.MaxPolicyLength),
		validation.ValidateLength("política de cancelamento", next.CancellationPolicy, 0, validation.MaxPolicyLength),
	); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, translate(err)
	}
	s.snapshot.Store(&next)

	if s.cache != nil {
		cache.Invalidate(ctx, s.cache, cache.BoardPrefix)
	}

	logger.Component("settings").WithField("admin_id", adminID).
		WithField("take_rate", next.TakeRate).Info("platform settings updated")
	return &next, nil
}

// PublicSettings - то, что видно без авторизации.
type PublicSettings struct {
	PlatformName            string             `json:"platform_name"`
	PlatformCity            string             `json:"platform_city"`
	TermsOfUse              string             `json:"terms_of_use"`
	PrivacyPolicy           string             `json:"privacy_policy"`
	CancellationPolicy      string             `json:"cancellation_policy"`
	CancellationWindowHours int                `json:"cancellation_window_hours"`
	TakeRate                float64            `json:"take_rate"`
	Rates                   map[string]float64 `json:"rates"`
}

// Public возвращает публичную часть настроек.
func (s *SettingsService) Public() PublicSettings {
	cur := s.Current()
	rates := make(map[string]float64, 3)
	for category, rate := range cur.Fee().Rates {
		rates[string(category)] = rate
	}
	return PublicSettings{
		PlatformName:            cur.PlatformName,
		PlatformCity:            cur.PlatformCity,
		TermsOfUse:              cur.TermsOfUse,
		PrivacyPolicy:           cur.PrivacyPolicy,
		CancellationPolicy:      cur.CancellationPolicy,
		CancellationWindowHours: cur.CancellationWindowHours,
		TakeRate:                cur.TakeRate,
		Rates:                   rates,
	}
}

// DefaultPlatformSettings строит строку настроек из значений конфигурации.
func DefaultPlatformSettings(f fee.Settings, name, city string) models.PlatformSettings {
	return models.PlatformSettings{
		TakeRate:                f.TakeRate,
		CancellationWindowHours: f.CancellationWindowHours,
		RateWaiter:              f.Rates[vo.CategoryWaiter],
		RateBartender:           f.Rates[vo.CategoryBartender],
		RateEvents:              f.Rates[vo.CategoryEvents],
		PlatformName:            name,
		PlatformCity:            city,
	}
}
