package services

import (
	"context"
	"sort"
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
)

const upcomingLimit = 10

type Dashboard struct {
	Date           string                              `json:"date"`
	Total          int64                               `json:"total"`
	StatusCounts   map[models.ReservationStatus]int64 `json:"status_counts"`
	ExpectedGuests int                                 `json:"expected_guests"`
	Upcoming       []models.Reservation                `json:"upcoming"`
	TableStatus    map[string]int64                    `json:"table_status"`
	Capacity       CapacitySnapshot                    `json:"capacity"`
}

type TimelineSlot struct {
	ReservationID     uint                     `json:"reservation_id"`
	ReservationNumber string                   `json:"reservation_number"`
	CustomerName      string                   `json:"customer_name"`
	NumberOfGuests    int                      `json:"number_of_guests"`
	Status            models.ReservationStatus `json:"status"`
	Start             time.Time                `json:"start"`
	End               time.Time                `json:"end"`
}

type TableTimeline struct {
	TableID     uint           `json:"table_id"`
	TableNumber int            `json:"table_number"`
	Name        string         `json:"name"`
	Capacity    int            `json:"capacity"`
	Location    *string        `json:"location,omitempty"`
	IsActive    bool           `json:"is_active"`
	Status      string         `json:"status"`
	Slots       []TimelineSlot `json:"slots"`
}

type Timeline struct {
	Date   string          `json:"date"`
	Tables []TableTimeline `json:"tables"`
}

// Dashboard summarizes one local day of bookings.
func (s *ReservationManager) Dashboard(ctx context.Context, date time.Time) (*Dashboard, error) {
	from, to := s.policy.DayBounds(date)

	counts, err := s.reservations.CountByStatusBetween(ctx, from, to)
	if err != nil {
		return nil, InternalError("failed to count reservations", err)
	}
	list, err := s.reservations.ListBetween(ctx, from, to)
	if err != nil {
		return nil, InternalError("failed to list reservations", err)
	}
	tableStatus, err := s.tables.StatusCounts(ctx)
	if err != nil {
		return nil, InternalError("failed to count tables", err)
	}
	capacity, err := s.capacity.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Date:         from.In(s.policy.location()).Format("2006-01-02"),
		StatusCounts: counts,
		Upcoming:     []models.Reservation{},
		TableStatus:  tableStatus,
		Capacity:     capacity,
	}
	for _, c := range counts {
		d.Total += c
	}

	now := s.clock.Now()
	for _, r := range list {
		if r.Status.HoldsTables() {
			d.ExpectedGuests += r.NumberOfGuests
		}
		if (r.Status == models.ReservationPending || r.Status == models.ReservationConfirmed) &&
			!r.ReservationTime.Before(now) && len(d.Upcoming) < upcomingLimit {
			d.Upcoming = append(d.Upcoming, r)
		}
	}
	return d, nil
}

// Timeline lays out the day's reservations per table.
func (s *ReservationManager) Timeline(ctx context.Context, date time.Time) (*Timeline, error) {
	from, to := s.policy.DayBounds(date)

	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, InternalError("failed to load tables", err)
	}
	list, err := s.reservations.ListBetween(ctx, from, to)
	if err != nil {
		return nil, InternalError("failed to list reservations", err)
	}

	slots := make(map[uint][]TimelineSlot, len(tables))
	for _, r := range list {
		start, end := r.Window()
		for _, a := range r.TableAssignments {
			slots[a.TableID] = append(slots[a.TableID], TimelineSlot{
				ReservationID:     r.ID,
				ReservationNumber: r.ReservationNumber,
				CustomerName:      r.CustomerName,
				NumberOfGuests:    r.NumberOfGuests,
				Status:            r.Status,
				Start:             start,
				End:               end,
			})
		}
	}

	tl := &Timeline{
		Date:   from.In(s.policy.location()).Format("2006-01-02"),
		Tables: make([]TableTimeline, 0, len(tables)),
	}
	for _, t := range tables {
		row := TableTimeline{
			TableID:     t.ID,
			TableNumber: t.TableNumber,
			Name:        t.DisplayName(),
			Capacity:    t.Capacity,
			Location:    t.Location,
			IsActive:    t.IsActive,
			Status:      t.Status,
			Slots:       slots[t.ID],
		}
		if row.Slots == nil {
			row.Slots = []TimelineSlot{}
		}
		sort.Slice(row.Slots, func(i, j int) bool {
			return row.Slots[i].Start.Before(row.Slots[j].Start)
		})
		tl.Tables = append(tl.Tables, row)
	}
	return tl, nil
}
