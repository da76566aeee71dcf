package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/extrasite-backend/internal/models"
)

// ErrSettingsNotFound - строка настроек ещё не создана.
var ErrSettingsNotFound = errors.New("platform settings not found")

const settingsColumns = `
	take_rate, cancellation_window_hours, rate_garcom, rate_bartender, rate_organizacao,
	platform_name, platform_city, terms_of_use, privacy_policy, cancellation_policy,
	updated_by, updated_at
`

// SettingsRepository хранит единственную строку platform_settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository создаёт экземпляр репозитория.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get возвращает текущие настройки.
func (r *SettingsRepository) Get(ctx context.Context) (*models.PlatformSettings, error) {
	var s models.PlatformSettings
	if err := r.db.GetContext(ctx, &s, `SELECT `+settingsColumns+` FROM platform_settings WHERE id`); err != nil {
		if isNoRows(err) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("settings repository: get %w", err)
	}
	return &s, nil
}

// Save перезаписывает настройки целиком.
func (r *SettingsRepository) Save(ctx context.Context, s *models.PlatformSettings) error {
	query := `
		INSERT INTO platform_settings (
			id, take_rate, cancellation_window_hours, rate_garcom, rate_bartender, rate_organizacao,
			platform_name, platform_city, terms_of_use, privacy_policy, cancellation_policy, updated_by
		)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			take_rate = EXCLUDED.take_rate,
			cancellation_window_hours = EXCLUDED.cancellation_window_hours,
			rate_garcom = EXCLUDED.rate_garcom,
			rate_bartender = EXCLUDED.rate_bartender,
			rate_organizacao = EXCLUDED.rate_organizacao,
			platform_name = EXCLUDED.platform_name,
			platform_city = EXCLUDED.platform_city,
			terms_of_use = EXCLUDED.terms_of_use,
			privacy_policy = EXCLUDED.privacy_policy,
			cancellation_policy = EXCLUDED.cancellation_policy,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		s.TakeRate, s.CancellationWindowHours, s.RateWaiter, s.RateBartender, s.RateEvents,
		s.PlatformName, s.PlatformCity, s.TermsOfUse, s.PrivacyPolicy, s.CancellationPolicy, s.UpdatedBy,
	).Scan(&s.UpdatedAt); err != nil {
		return fmt.Errorf("settings repository: save %w", err)
	}
	return nil
}

// EnsureDefaults создаёт строку настроек, если её ещё нет, и возвращает актуальную.
func (r *SettingsRepository) EnsureDefaults(ctx context.Context, defaults *models.PlatformSettings) (*models.PlatformSettings, error) {
	query := `
		INSERT INTO platform_settings (
			id, take_rate, cancellation_window_hours, rate_garcom, rate_bartender, rate_organizacao,
			platform_name, platform_city
		)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query,
		defaults.TakeRate, defaults.CancellationWindowHours, defaults.RateWaiter, defaults.RateBartender,
		defaults.RateEvents, defaults.PlatformName, defaults.PlatformCity,
	); err != nil {
		return nil, fmt.Errorf("settings repository: ensure defaults %w", err)
	}
	return r.Get(ctx)
}
