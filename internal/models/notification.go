package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification - уведомление внутри приложения. Payload: {"event": ..., "data": ...}.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
