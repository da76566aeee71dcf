package valueobject

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

// Role - роль участника платформы. Она же используется в JWT claims.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleJobSeeker, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// CanRate - оценивать друг друга могут только стороны candidatura.
func (r Role) CanRate() bool {
	return r == RoleJobSeeker || r == RoleCompany
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "papel inválido")
	}
	return r, nil
}

// Party - участник, помеченный ролью.
type Party struct {
	Role Role
	ID   uuid.UUID
}

// Parties - две стороны одной candidatura.
type Parties struct {
	JobSeekerID uuid.UUID
	CompanyID   uuid.UUID
}

// ResolveRater возвращает того, кто оценивает, по его роли.
func ResolveRater(raterRole Role, p Parties) (Party, error) {
	switch raterRole {
	case RoleCompany:
		return Party{Role: RoleCompany, ID: p.CompanyID}, nil
	case RoleJobSeeker:
		return Party{Role: RoleJobSeeker, ID: p.JobSeekerID}, nil
	}
	return Party{}, apperror.New(apperror.ErrCodeValidation, "papel de avaliador inválido")
}

// ResolveRatee: компания оценивает соискателя, соискатель - компанию.
func ResolveRatee(raterRole Role, p Parties) (Party, error) {
	switch raterRole {
	case RoleCompany:
		return Party{Role: RoleJobSeeker, ID: p.JobSeekerID}, nil
	case RoleJobSeeker:
		return Party{Role: RoleCompany, ID: p.CompanyID}, nil
	}
	return Party{}, apperror.New(apperror.ErrCodeValidation, "papel de avaliador inválido")
}

// Actor - кто выполняет операцию. Передаётся в сервисы явно, без привязки к HTTP сессии.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}
