package models

import "time"

// OrderStatusOpen is the status of the dine-in order an arrival opens.
// Later statuses belong to order management.
const OrderStatusOpen = "open"

type Order struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerID    *uint     `gorm:"index" json:"customer_id,omitempty"`
	ReservationID *uint     `gorm:"uniqueIndex" json:"reservation_id,omitempty"`
	TableID       uint      `gorm:"not null;index" json:"table_id"`
	Status        string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	GuestCount    int       `gorm:"not null;default:0" json:"guest_count"`
	TotalAmount   float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Tables        []Table   `gorm:"many2many:order_tables;" json:"tables,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
