package models

import "time"

type Reservation struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	ReservationNumber string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"reservation_number"`
	CustomerID        *uint             `gorm:"index" json:"customer_id,omitempty"`
	CustomerName      string            `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone     string            `gorm:"type:varchar(32);index" json:"customer_phone"`
	CustomerEmail     *string           `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	ReservationTime   time.Time         `gorm:"not null;index:idx_reservation_window" json:"reservation_time"`
	EndTime           time.Time         `gorm:"not null;index:idx_reservation_window" json:"end_time"`
	NumberOfGuests    int               `gorm:"not null" json:"number_of_guests"`
	PreferredArea     *string           `gorm:"type:varchar(50)" json:"preferred_area,omitempty"`
	Status            ReservationStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	Notes             *string           `gorm:"type:text" json:"notes,omitempty"`
	CancelReason      *string           `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedByUserID   *uint             `json:"created_by_user_id,omitempty"`
	ConfirmedByUserID *uint             `json:"confirmed_by_user_id,omitempty"`
	CancelledByUserID *uint             `json:"cancelled_by_user_id,omitempty"`
	ArrivedByUserID   *uint             `json:"arrived_by_user_id,omitempty"`
	OrderID           *uint             `gorm:"index" json:"order_id,omitempty"`
	ConfirmedAt       *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
	ArrivedAt         *time.Time        `json:"arrived_at,omitempty"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null" json:"updated_at"`

	TableAssignments []ReservationTable `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tables"`
}

// TableIDs returns the ids of the assigned tables in assignment order.
func (r *Reservation) TableIDs() []uint {
	ids := make([]uint, 0, len(r.TableAssignments))
	for _, a := range r.TableAssignments {
		ids = append(ids, a.TableID)
	}
	return ids
}

// Window is the half-open interval during which the reservation holds its tables.
func (r *Reservation) Window() (time.Time, time.Time) {
	return r.ReservationTime, r.EndTime
}
