package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-reservation/repository"
)

type CapacitySnapshot struct {
	Percent        float64   `json:"percent"`
	CommittedSeats int64     `json:"committed_seats"`
	TotalSeats     int64     `json:"total_seats"`
	NearFull       bool      `json:"near_full"`
	Threshold      float64   `json:"threshold"`
	At             time.Time `json:"at"`
}

// CapacityEstimator reports how full the floor is right now. The figure is
// advisory and never blocks a booking.
type CapacityEstimator struct {
	reservations *repository.ReservationRepository
	tables       *repository.TableRepository
	clock        Clock
	threshold    float64
}

func NewCapacityEstimator(reservations *repository.ReservationRepository, tables *repository.TableRepository, clock Clock, threshold float64) *CapacityEstimator {
	return &CapacityEstimator{reservations: reservations, tables: tables, clock: clock, threshold: threshold}
}

// CurrentCapacityPercent returns committed seats over active seats, within
// [0,1]. With no active seats it returns 0.
func (e *CapacityEstimator) CurrentCapacityPercent(ctx context.Context) (float64, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Percent, nil
}

func (e *CapacityEstimator) Snapshot(ctx context.Context) (CapacitySnapshot, error) {
	now := e.clock.Now()
	snap := CapacitySnapshot{Threshold: e.threshold, At: now}

	total, err := e.tables.SumActiveCapacity(ctx)
	if err != nil {
		return snap, InternalError("failed to read table capacity", err)
	}
	guests, err := e.reservations.CommittedGuestsAt(ctx, now)
	if err != nil {
		return snap, InternalError("failed to read committed guests", err)
	}
	occupied, err := e.tables.SumOccupiedCapacity(ctx)
	if err != nil {
		return snap, InternalError("failed to read occupied tables", err)
	}

	snap.TotalSeats = total
	snap.CommittedSeats = guests + occupied
	snap.Percent = capacityRatio(snap.CommittedSeats, total)
	snap.NearFull = total > 0 && snap.Percent >= e.threshold
	return snap, nil
}

func capacityRatio(committed, total int64) float64 {
	if total <= 0 || committed <= 0 {
		return 0
	}
	ratio := float64(committed) / float64(total)
	if ratio > 1 {
		return 1
	}
	return ratio
}
