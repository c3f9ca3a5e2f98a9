package models

import "time"

// ReservationTable assigns one physical table to a reservation. A large party
// gets one row per table.
type ReservationTable struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	ReservationID uint      `gorm:"not null;uniqueIndex:idx_reservation_table" json:"reservation_id"`
	TableID       uint      `gorm:"not null;uniqueIndex:idx_reservation_table;index" json:"table_id"`
	Table         Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
}
