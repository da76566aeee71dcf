package models

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// Company - компания-заказчик (empresa). Публиковать вакансии может только после одобрения.
type Company struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	Email           string           `db:"email" json:"email"`
	PasswordHash    string           `db:"password_hash" json:"-"`
	LegalName       string           `db:"legal_name" json:"razao_social"`
	TradeName       string           `db:"trade_name" json:"nome_fantasia"`
	CNPJ            string           `db:"cnpj" json:"cnpj"`
	Phone           string           `db:"phone" json:"phone"`
	ContactPerson   string           `db:"contact_person" json:"contact_person"`
	Street          *string          `db:"street" json:"street,omitempty"`
	City            string           `db:"city" json:"city"`
	State           string           `db:"state" json:"state"`
	PostalCode      *string          `db:"postal_code" json:"cep,omitempty"`
	LogoPath        *string          `db:"logo_path" json:"logo_path,omitempty"`
	Status          vo.CompanyStatus `db:"status" json:"status"`
	RejectionReason *string          `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ApprovedBy      *uuid.UUID       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	RatingSum       int              `db:"rating_sum" json:"-"`
	RatingCount     int              `db:"rating_count" json:"rating_count"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

func (c *Company) IsActive() bool {
	return c.Status == vo.CompanyActive
}

func (c *Company) Rating() RatingAggregate {
	return RatingAggregate{Sum: c.RatingSum, Count: c.RatingCount}
}

// CompanyProfileUpdate - редактируемые поля профиля компании.
type CompanyProfileUpdate struct {
	TradeName     string
	Phone         string
	ContactPerson string
	Street        *string
	City          string
	State         string
	PostalCode    *string
}
