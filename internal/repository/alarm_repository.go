package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/extrasite-backend/internal/models"
)

// AlarmRepository хранит состояние сигнализации.
type AlarmRepository struct {
	db *sqlx.DB
}

// NewAlarmRepository создаёт экземпляр репозитория.
func NewAlarmRepository(db *sqlx.DB) *AlarmRepository {
	return &AlarmRepository{db: db}
}

// Get возвращает текущее состояние; отсутствие строки означает "выключено".
func (r *AlarmRepository) Get(ctx context.Context) (*models.AlarmState, error) {
	var state models.AlarmState
	if err := r.db.GetContext(ctx, &state, `SELECT active, updated_by, updated_at FROM alarm_state WHERE id`); err != nil {
		if isNoRows(err) {
			return &models.AlarmState{}, nil
		}
		return nil, fmt.Errorf("alarm repository: get %w", err)
	}
	return &state, nil
}

// Set включает или выключает сигнализацию.
func (r *AlarmRepository) Set(ctx context.Context, active bool, adminID uuid.UUID) (*models.AlarmState, error) {
	query := `
		INSERT INTO alarm_state (id, active, updated_by)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (id) DO UPDATE SET active = EXCLUDED.active, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING active, updated_by, updated_at
	`
	var state models.AlarmState
	if err := r.db.GetContext(ctx, &state, query, active, adminID); err != nil {
		return nil, fmt.Errorf("alarm repository: set %w", err)
	}
	return &state, nil
}
