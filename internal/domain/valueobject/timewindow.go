package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ignatzorin/extrasite-backend/internal/pkg/apperror"
)

// TimeOfDay - время суток в минутах от полуночи. В БД хранится как TIME.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay принимает "HH:MM" или "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layouts := []string{"15:04", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	return 0, apperror.Newf(apperror.ErrCodeValidation, "horário inválido: %q", s)
}

// MustTimeOfDay используется в тестах и сидерах.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On возвращает момент времени t в указанный день.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

// Scan реализует sql.Scanner. lib/pq отдаёт TIME как time.Time с нулевой датой.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		*t = 0
		return nil
	}
	return fmt.Errorf("time of day: unsupported type %T", src)
}

func (t *TimeOfDay) scanString(s string) error {
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeWindow - полуоткрытый интервал [Start, End) внутри одного дня.
type TimeWindow struct {
	Start TimeOfDay
	End   TimeOfDay
}

func NewTimeWindow(start, end TimeOfDay) (TimeWindow, error) {
	w := TimeWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End > minutesPerDay {
		return apperror.New(apperror.ErrCodeValidation, "horário fora do dia")
	}
	if w.End <= w.Start {
		return apperror.New(apperror.ErrCodeValidation, "o horário de término deve ser posterior ao de início")
	}
	return nil
}

// Overlaps: касание концов (22:00-22:00) пересечением не считается.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && w.End > other.Start
}

// DurationHours - длительность в часах, допускаются дробные значения.
func (w TimeWindow) DurationHours() float64 {
	return float64(w.End-w.Start) / 60
}

func (w TimeWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}
