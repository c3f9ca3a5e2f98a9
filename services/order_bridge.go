package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// OrderCreator opens the dine-in order for an arriving party. It runs inside
// the arrival transaction and must use tx for every write.
type OrderCreator interface {
	CreateForReservation(ctx context.Context, tx *gorm.DB, res *models.Reservation, tableIDs []uint) (uint, error)
}

type GormOrderCreator struct{}

func (GormOrderCreator) CreateForReservation(ctx context.Context, tx *gorm.DB, res *models.Reservation, tableIDs []uint) (uint, error) {
	if len(tableIDs) == 0 {
		return 0, errors.New("reservation has no tables")
	}
	tables := make([]models.Table, 0, len(tableIDs))
	for _, id := range tableIDs {
		tables = append(tables, models.Table{ID: id})
	}
	resID := res.ID
	order := models.Order{
		CustomerID:    res.CustomerID,
		ReservationID: &resID,
		TableID:       tableIDs[0],
		Status:        models.OrderStatusOpen,
		GuestCount:    res.NumberOfGuests,
		Tables:        tables,
	}
	// Omit Tables.* links the join rows without upserting the tables.
	if err := tx.WithContext(ctx).Omit("Tables.*").Create(&order).Error; err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return order.ID, nil
}
