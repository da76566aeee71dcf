package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(16), cfg.MaxUploadSizeMB)
	assert.Equal(t, "log", cfg.Mail.Driver)
	assert.InDelta(t, 0.15, cfg.Platform.Fee.TakeRate, 1e-9)
	assert.Equal(t, 48, cfg.Platform.Fee.CancellationWindowHours)
	assert.InDelta(t, 15.0, cfg.Platform.Fee.Rates[vo.CategoryWaiter], 1e-9)
	assert.InDelta(t, 20.0, cfg.Platform.Fee.Rates[vo.CategoryBartender], 1e-9)
	assert.InDelta(t, 18.0, cfg.Platform.Fee.Rates[vo.CategoryEvents], 1e-9)
	assert.Equal(t, "ExtraSITE", cfg.Platform.PlatformName)
}

func TestLoad_TakeRateOutOfRange(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TAKE_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestLoad_TakeRateWithComma(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TAKE_RATE", "0,2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Platform.Fee.TakeRate, 1e-9)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownMailDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("MAIL_DRIVER", "smtp")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "extra")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "extrasite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://extra:p%40ss@db:5432/extrasite?sslmode=disable", cfg.DatabaseURL)
}
