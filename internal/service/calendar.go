package service

import "time"

// Calendar - текущее время в часовом поясе платформы.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time
}

// NewCalendar создаёт календарь с системными часами.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Loc: loc, Now: time.Now}
}

// Time возвращает текущий момент в часовом поясе платформы.
func (c Calendar) Time() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// Today - полночь текущего дня.
func (c Calendar) Today() time.Time {
	y, m, d := c.Time().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.location())
}

func (c Calendar) location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}
