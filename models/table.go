package models

import (
	"strconv"
	"time"
)

// Table status values. "occupied" is set when a reservation arrives or a
// walk-in is seated; "dirty" until a cleaner marks it ready again.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusDirty     = "dirty"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;uniqueIndex" json:"table_number"`
	Name        *string   `gorm:"type:varchar(100)" json:"name,omitempty"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Location    *string   `gorm:"type:varchar(50);index" json:"location,omitempty"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// DisplayName returns the configured name or "Table <number>".
func (t Table) DisplayName() string {
	if t.Name != nil && *t.Name != "" {
		return *t.Name
	}
	return "Table " + strconv.Itoa(t.TableNumber)
}

// Area returns the table location or an empty string.
func (t Table) Area() string {
	if t.Location == nil {
		return ""
	}
	return *t.Location
}
