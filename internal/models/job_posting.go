package models

import (
	"time"

	"github.com/google/uuid"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
)

// JobPosting - вакансия на конкретную дату и смену (trabalho).
type JobPosting struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	CompanyID      uuid.UUID        `db:"company_id" json:"company_id"`
	Title          string           `db:"title" json:"title"`
	Description    string           `db:"description" json:"description"`
	Category       vo.Category      `db:"category" json:"category"`
	Requirements   *string          `db:"requirements" json:"requirements,omitempty"`
	Address        string           `db:"address" json:"address"`
	City           string           `db:"city" json:"city"`
	Date           time.Time        `db:"date" json:"date"`
	StartTime      vo.TimeOfDay     `db:"start_time" json:"start_time"`
	EndTime        vo.TimeOfDay     `db:"end_time" json:"end_time"`
	PayPerSlot     float64          `db:"pay_per_slot" json:"pay_per_slot"`
	SuggestedValue *float64         `db:"suggested_value" json:"suggested_value,omitempty"`
	TotalSlots     int              `db:"total_slots" json:"total_slots"`
	FilledSlots    int              `db:"filled_slots" json:"filled_slots"`
	Status         vo.PostingStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

func (p *JobPosting) AvailableSlots() int {
	return p.TotalSlots - p.FilledSlots
}

// IsOpen - вакансия принимает отклики.
func (p *JobPosting) IsOpen() bool {
	return p.Status == vo.PostingOpen && p.AvailableSlots() > 0
}

func (p *JobPosting) Window() vo.TimeWindow {
	return vo.TimeWindow{Start: p.StartTime, End: p.EndTime}
}

// StartsAt - момент начала смены в часовом поясе loc.
func (p *JobPosting) StartsAt(loc *time.Location) time.Time {
	y, m, d := p.Date.Date()
	return p.StartTime.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// SameDay сравнивает только календарную дату.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// JobPostingView - вакансия для мурала и карточки с расчётом выплаты.
type JobPostingView struct {
	JobPosting
	CompanyName     string  `db:"company_name" json:"company_name"`
	CategoryDisplay string  `db:"-" json:"category_display"`
	NetPay          float64 `db:"-" json:"net_pay"`
	PlatformFee     float64 `db:"-" json:"platform_fee"`
}

// JobBoardFilter - фильтры мурала.
type JobBoardFilter struct {
	Category *vo.Category
	City     *string
	From     time.Time
	Limit    int
	Offset   int
}
