package models

import (
	"time"
)

type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        *uint     `json:"user_id,omitempty"`
	User          *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	ReservationID *uint     `gorm:"index" json:"reservation_id,omitempty"`
	Type          string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Title         *string   `gorm:"type:varchar(100)" json:"title,omitempty"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
