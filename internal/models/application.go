package models

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// Application - отклик соискателя на вакансию (candidatura).
type Application struct {
	ID                 uuid.UUID            `db:"id" json:"id"`
	PostingID          uuid.UUID            `db:"posting_id" json:"posting_id"`
	JobSeekerID        uuid.UUID            `db:"job_seeker_id" json:"job_seeker_id"`
	Message            *string              `db:"message" json:"message,omitempty"`
	Status             vo.ApplicationStatus `db:"status" json:"status"`
	ConfirmedByCompany bool                 `db:"confirmed_by_company" json:"confirmed_by_company"`
	Attended           *bool                `db:"attended" json:"attended,omitempty"`
	LateCancellation   bool                 `db:"late_cancellation" json:"late_cancellation"`
	AppliedAt          time.Time            `db:"applied_at" json:"applied_at"`
	RespondedAt        *time.Time           `db:"responded_at" json:"responded_at,omitempty"`
	UpdatedAt          time.Time            `db:"updated_at" json:"updated_at"`
}

// AttendanceConfirmed - компания подтвердила, что соискатель вышел на смену.
func (a *Application) AttendanceConfirmed() bool {
	return a.ConfirmedByCompany && a.Attended != nil && *a.Attended
}

// ScheduledApplication - отклик вместе с датой и окном вакансии, для поиска конфликтов.
type ScheduledApplication struct {
	ID        uuid.UUID            `db:"id"`
	PostingID uuid.UUID            `db:"posting_id"`
	Status    vo.ApplicationStatus `db:"status"`
	Date      time.Time            `db:"date"`
	StartTime vo.TimeOfDay         `db:"start_time"`
	EndTime   vo.TimeOfDay         `db:"end_time"`
}

func (s ScheduledApplication) Window() vo.TimeWindow {
	return vo.TimeWindow{Start: s.StartTime, End: s.EndTime}
}

// ApplicationView - отклик с названием вакансии и именами сторон для списков.
type ApplicationView struct {
	Application
	PostingTitle  string       `db:"posting_title" json:"posting_title"`
	PostingDate   time.Time    `db:"posting_date" json:"posting_date"`
	StartTime     vo.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime       vo.TimeOfDay `db:"end_time" json:"end_time"`
	PayPerSlot    float64      `db:"pay_per_slot" json:"pay_per_slot"`
	CompanyID     uuid.UUID    `db:"company_id" json:"company_id"`
	CompanyName   string       `db:"company_name" json:"company_name"`
	JobSeekerName string       `db:"job_seeker_name" json:"job_seeker_name"`
}
