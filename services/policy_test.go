package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateTime(t *testing.T) {
	policy := DefaultBookingPolicy()
	now := time.Date(2026, 10, 15, 9, 50, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"exactly lead time at opening", time.Date(2026, 10, 15, 10, 20, 0, 0, time.UTC), true},
		{"one minute short of lead time", time.Date(2026, 10, 15, 10, 19, 0, 0, time.UTC), false},
		{"in the past", time.Date(2026, 10, 14, 19, 0, 0, 0, time.UTC), false},
		{"last seating hour", time.Date(2026, 10, 15, 22, 59, 0, 0, time.UTC), true},
		{"after last seating", time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC), false},
		{"before opening next day", time.Date(2026, 10, 16, 9, 59, 0, 0, time.UTC), false},
		{"opening next day", time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.ValidateTime(tc.at, now))
		})
	}
}

func TestValidateTimeUsesRestaurantZone(t *testing.T) {
	policy := DefaultBookingPolicy()
	policy.Location = time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	// 12:00 UTC is 19:00 local
	assert.True(t, policy.ValidateTime(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC), now))
	// 16:00 UTC is 23:00 local
	assert.False(t, policy.ValidateTime(time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC), now))
}

func TestValidGuests(t *testing.T) {
	policy := DefaultBookingPolicy()
	assert.False(t, policy.ValidGuests(0))
	assert.True(t, policy.ValidGuests(1))
	assert.True(t, policy.ValidGuests(20))
	assert.False(t, policy.ValidGuests(21))
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
	h := time.Hour

	assert.True(t, Overlaps(base, base.Add(2*h), base.Add(h), base.Add(3*h)))
	assert.True(t, Overlaps(base.Add(h), base.Add(3*h), base, base.Add(2*h)))
	assert.True(t, Overlaps(base, base.Add(3*h), base.Add(h), base.Add(2*h)))
	assert.False(t, Overlaps(base, base.Add(2*h), base.Add(2*h), base.Add(4*h)), "touching windows do not overlap")
	assert.False(t, Overlaps(base.Add(2*h), base.Add(4*h), base, base.Add(2*h)))
}

func TestDayBounds(t *testing.T) {
	policy := DefaultBookingPolicy()
	policy.Location = time.FixedZone("WIB", 7*3600)

	from, to := policy.DayBounds(time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 15, 17, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 10, 16, 17, 0, 0, 0, time.UTC), to)
}
