package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-reservation/repository"
	"gorm.io/gorm"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AvailabilityIndex answers whether tables are free over a window. Only
// assignments of Pending, Confirmed and Arrived reservations block.
type AvailabilityIndex struct {
	reservations *repository.ReservationRepository
}

func NewAvailabilityIndex(reservations *repository.ReservationRepository) *AvailabilityIndex {
	return &AvailabilityIndex{reservations: reservations}
}

// WithTx returns an index that reads through tx, so a check and the insert
// that follows it see the same snapshot.
func (a *AvailabilityIndex) WithTx(tx *gorm.DB) *AvailabilityIndex {
	return &AvailabilityIndex{reservations: a.reservations.WithTx(tx)}
}

func (a *AvailabilityIndex) IsAvailable(ctx context.Context, tableID uint, start time.Time, duration time.Duration) (bool, error) {
	free, err := a.FindFree(ctx, []uint{tableID}, start, duration)
	if err != nil {
		return false, err
	}
	_, ok := free[tableID]
	return ok, nil
}

// FindFree returns the subset of candidates with no blocking assignment in
// [start, start+duration).
func (a *AvailabilityIndex) FindFree(ctx context.Context, candidates []uint, start time.Time, duration time.Duration) (map[uint]struct{}, error) {
	free := make(map[uint]struct{}, len(candidates))
	if len(candidates) == 0 {
		return free, nil
	}
	end := start.Add(duration)

	blocking, err := a.reservations.BlockingAssignments(ctx, candidates, start, end)
	if err != nil {
		return nil, err
	}

	blocked := make(map[uint]struct{}, len(blocking))
	for _, b := range blocking {
		if Overlaps(start, end, b.ReservationTime, b.EndTime) {
			blocked[b.TableID] = struct{}{}
		}
	}
	for _, id := range candidates {
		if _, ok := blocked[id]; !ok {
			free[id] = struct{}{}
		}
	}
	return free, nil
}
