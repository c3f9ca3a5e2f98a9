package models

import "fmt"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationArrived   ReservationStatus = "Arrived"
	ReservationCancelled ReservationStatus = "Cancelled"
	ReservationNoShow    ReservationStatus = "NoShow"
)

// AllReservationStatuses lists every status in lifecycle order.
var AllReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationArrived,
	ReservationCancelled,
	ReservationNoShow,
}

// ActiveReservationStatuses hold tables; Cancelled and NoShow never block.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationArrived,
}

// ParseReservationStatus accepts the exact status names only.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return st, nil
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationArrived, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is legal.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationArrived, ReservationCancelled, ReservationNoShow:
		return true
	case ReservationPending, ReservationConfirmed:
		return false
	}
	return true
}

// HoldsTables reports whether assignments in this status block a table.
func (s ReservationStatus) HoldsTables() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationArrived:
		return true
	case ReservationCancelled, ReservationNoShow:
		return false
	}
	return false
}

// CanTransitionTo is the full transition table of the reservation lifecycle.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationArrived || next == ReservationCancelled || next == ReservationNoShow
	case ReservationArrived, ReservationCancelled, ReservationNoShow:
		return false
	}
	return false
}

// SourcesFor returns the statuses from which next can be reached.
func SourcesFor(next ReservationStatus) []ReservationStatus {
	var from []ReservationStatus
	for _, s := range AllReservationStatuses {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}
