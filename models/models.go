package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Table{},
		&Reservation{},
		&ReservationTable{},
		&Order{},
		&Notification{},
	}
}
