package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

// Reservation event types.
const (
	EventCreated   = "created"
	EventConfirmed = "confirmed"
	EventCancelled = "cancelled"
	EventArrived   = "arrived"
	EventNoShow    = "no_show"
)

type ReservationEvent struct {
	Type              string                   `json:"type"`
	ReservationID     uint                     `json:"reservation_id"`
	ReservationNumber string                   `json:"reservation_number"`
	Status            models.ReservationStatus `json:"status"`
	CustomerName      string                   `json:"customer_name"`
	CustomerPhone     string                   `json:"customer_phone"`
	ReservationTime   time.Time                `json:"reservation_time"`
	NumberOfGuests    int                      `json:"number_of_guests"`
	TableIDs          []uint                   `json:"table_ids"`
	OrderID           *uint                    `json:"order_id,omitempty"`
	Reason            string                   `json:"reason,omitempty"`
	OccurredAt        time.Time                `json:"occurred_at"`
}

func newReservationEvent(eventType string, res *models.Reservation, at time.Time) ReservationEvent {
	ev := ReservationEvent{
		Type:              eventType,
		ReservationID:     res.ID,
		ReservationNumber: res.ReservationNumber,
		Status:            res.Status,
		CustomerName:      res.CustomerName,
		CustomerPhone:     res.CustomerPhone,
		ReservationTime:   res.ReservationTime,
		NumberOfGuests:    res.NumberOfGuests,
		TableIDs:          res.TableIDs(),
		OrderID:           res.OrderID,
		OccurredAt:        at,
	}
	if res.CancelReason != nil {
		ev.Reason = *res.CancelReason
	}
	return ev
}

// ReservationNotifier receives reservation events after commit. Errors are
// logged by the caller and never undo the transition.
type ReservationNotifier interface {
	Notify(ctx context.Context, event ReservationEvent) error
}

// MultiNotifier fans an event out to every sink and joins their errors.
type MultiNotifier []ReservationNotifier

func (m MultiNotifier) Notify(ctx context.Context, event ReservationEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ReservationEvent) error { return nil }

// DBNotifier stores events as staff notifications.
type DBNotifier struct {
	DB *gorm.DB
}

func (n *DBNotifier) Notify(ctx context.Context, event ReservationEvent) error {
	title := "Reservation " + event.Type
	id := event.ReservationID
	notification := models.Notification{
		ReservationID: &id,
		Type:          "reservation_" + event.Type,
		Title:         &title,
		Message:       notificationMessage(event),
	}
	if err := n.DB.WithContext(ctx).Create(&notification).Error; err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

func notificationMessage(event ReservationEvent) string {
	when := event.ReservationTime.Format("2006-01-02 15:04")
	switch event.Type {
	case EventCreated:
		return fmt.Sprintf("New reservation %s for %s (%d guests) at %s", event.ReservationNumber, event.CustomerName, event.NumberOfGuests, when)
	case EventConfirmed:
		return fmt.Sprintf("Reservation %s for %s confirmed for %s", event.ReservationNumber, event.CustomerName, when)
	case EventCancelled:
		if event.Reason != "" {
			return fmt.Sprintf("Reservation %s cancelled: %s", event.ReservationNumber, event.Reason)
		}
		return fmt.Sprintf("Reservation %s cancelled", event.ReservationNumber)
	case EventArrived:
		return fmt.Sprintf("%s has arrived for reservation %s", event.CustomerName, event.ReservationNumber)
	case EventNoShow:
		return fmt.Sprintf("Reservation %s marked as no-show", event.ReservationNumber)
	}
	return fmt.Sprintf("Reservation %s is now %s", event.ReservationNumber, event.Status)
}

// CapacitySource reports the current share of committed seats.
type CapacitySource interface {
	Capacity(ctx context.Context) (CapacitySnapshot, error)
}

// HubNotifier pushes events to connected staff screens. With a Capacity
// source set, every event is followed by a fresh capacity snapshot so the
// floor display can warn when the house is near full.
type HubNotifier struct {
	Hub      *hub.Hub
	Capacity CapacitySource
}

func (n *HubNotifier) Notify(ctx context.Context, event ReservationEvent) error {
	if err := n.Hub.Broadcast(hub.Message{Event: hubEvent(event.Type), Data: event}); err != nil {
		return err
	}
	if n.Capacity == nil {
		return nil
	}
	snap, err := n.Capacity.Capacity(ctx)
	if err != nil {
		return fmt.Errorf("load capacity: %w", err)
	}
	return n.Hub.Broadcast(hub.Message{Event: hub.EventCapacityUpdate, Data: snap})
}

func hubEvent(eventType string) string {
	switch eventType {
	case EventCreated:
		return hub.EventReservationCreated
	case EventConfirmed:
		return hub.EventReservationConfirmed
	case EventCancelled:
		return hub.EventReservationCancelled
	case EventArrived:
		return hub.EventReservationArrived
	case EventNoShow:
		return hub.EventReservationNoShow
	}
	return "reservation_" + eventType
}
