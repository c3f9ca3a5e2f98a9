package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

var (
	testNow     = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	testEvening = time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC)
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event ReservationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type testEnv struct {
	db       *gorm.DB
	svc      *ReservationManager
	clock    *FixedClock
	notifier *mockNotifier
	tables   []models.Table
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

// seedFloor creates tables with capacities 2, 4, 4 and 6.
func seedFloor(t *testing.T, db *gorm.DB) []models.Table {
	t.Helper()
	tables := []models.Table{
		{TableNumber: 1, Capacity: 2, Location: strPtr("window"), IsActive: true, Status: models.TableStatusAvailable},
		{TableNumber: 2, Capacity: 4, Location: strPtr("main"), IsActive: true, Status: models.TableStatusAvailable},
		{TableNumber: 3, Capacity: 4, Location: strPtr("terrace"), IsActive: true, Status: models.TableStatusAvailable},
		{TableNumber: 4, Capacity: 6, Location: strPtr("main"), IsActive: true, Status: models.TableStatusAvailable},
	}
	require.NoError(t, db.Create(&tables).Error)
	return tables
}

type envOption func(*ReservationServiceDeps)

func withOrders(o OrderCreator) envOption {
	return func(d *ReservationServiceDeps) { d.Orders = o }
}

func withLockTimeout(timeout time.Duration) envOption {
	return func(d *ReservationServiceDeps) { d.Locker = NewKeyedLocker(timeout) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	utils.InitLogger("error")

	db := database.OpenTestDB(t)
	tables := seedFloor(t, db)
	clock := NewFixedClock(testNow)
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()

	policy := DefaultBookingPolicy()
	deps := ReservationServiceDeps{
		DB:                db,
		Policy:            policy,
		Clock:             clock,
		Locker:            NewKeyedLocker(5 * time.Second),
		Notifier:          notifier,
		NotifyTimeout:     time.Second,
		NoShowGrace:       15 * time.Minute,
		CapacityThreshold: 0.5,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	svc := NewReservationService(deps)
	t.Cleanup(svc.Wait)

	return &testEnv{db: db, svc: svc, clock: clock, notifier: notifier, tables: tables}
}

func (e *testEnv) create(t *testing.T, guests int, at time.Time, tableIDs ...uint) *models.Reservation {
	t.Helper()
	res, err := e.svc.Create(context.Background(), CreateReservationInput{
		CustomerName:    "Dewi",
		CustomerPhone:   "+6281234567",
		ReservationTime: at,
		NumberOfGuests:  guests,
		TableIDs:        tableIDs,
	}, nil)
	require.NoError(t, err)
	return res
}

func (e *testEnv) status(t *testing.T, id uint) models.ReservationStatus {
	t.Helper()
	var res models.Reservation
	require.NoError(t, e.db.First(&res, id).Error)
	return res.Status
}
