package models

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// JobSeeker - студент-фрилансер (colaborador).
type JobSeeker struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Email         string          `db:"email" json:"email"`
	PasswordHash  string          `db:"password_hash" json:"-"`
	Phone         *string         `db:"phone" json:"phone,omitempty"`
	University    *string         `db:"university" json:"university,omitempty"`
	PhotoPath     *string         `db:"photo_path" json:"photo_path,omitempty"`
	Bio           *string         `db:"bio" json:"bio,omitempty"`
	Skills        *string         `db:"skills" json:"skills,omitempty"`
	PixKey        *string         `db:"pix_key" json:"pix_key,omitempty"`
	Status        vo.SeekerStatus `db:"status" json:"status"`
	EmailVerified bool            `db:"email_verified" json:"email_verified"`
	RatingSum     int             `db:"rating_sum" json:"-"`
	RatingCount   int             `db:"rating_count" json:"rating_count"`
	TotalJobs     int             `db:"total_jobs" json:"total_jobs"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Rating возвращает среднюю оценку по точной сумме и количеству.
func (s *JobSeeker) Rating() RatingAggregate {
	return RatingAggregate{Sum: s.RatingSum, Count: s.RatingCount}
}

// JobSeekerProfileUpdate - редактируемые поля профиля.
type JobSeekerProfileUpdate struct {
	Name       string
	Phone      *string
	University *string
	Bio        *string
	Skills     *string
	PixKey     *string
}
