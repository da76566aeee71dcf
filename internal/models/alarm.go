package models

import (
	"time"

	"github.com/google/uuid"
)

// AlarmState - состояние сигнализации панели SensorDect.
type AlarmState struct {
	Active    bool       `db:"active" json:"alarm_status"`
	UpdatedBy *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
