package services

import "time"

// BookingPolicy holds the bookable window and table hold rules.
type BookingPolicy struct {
	Location        *time.Location
	ServiceDuration time.Duration
	MinLeadTime     time.Duration
	OpeningHour     int
	LastSeatingHour int
	MaxGuests       int
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		Location:        time.UTC,
		ServiceDuration: 120 * time.Minute,
		MinLeadTime:     30 * time.Minute,
		OpeningHour:     10,
		LastSeatingHour: 22,
		MaxGuests:       20,
	}
}

func (p BookingPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// ValidateTime reports whether t is far enough ahead of now and its local hour
// lies within the seating hours, both ends inclusive.
func (p BookingPolicy) ValidateTime(t, now time.Time) bool {
	if t.Before(now.Add(p.MinLeadTime)) {
		return false
	}
	hour := t.In(p.location()).Hour()
	return hour >= p.OpeningHour && hour <= p.LastSeatingHour
}

func (p BookingPolicy) ValidGuests(n int) bool {
	return n >= 1 && n <= p.MaxGuests
}

// DayBounds returns the UTC instants of local midnight on date and the next
// local midnight.
func (p BookingPolicy) DayBounds(date time.Time) (time.Time, time.Time) {
	loc := p.location()
	local := date.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// normalizeTime puts a requested time on the UTC minute grid used for storage.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}
