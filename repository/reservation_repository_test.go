package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
)

var evening = time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC)

func seedReservation(t *testing.T, repo *ReservationRepository, number string, status models.ReservationStatus, at time.Time, tableIDs ...uint) *models.Reservation {
	t.Helper()
	res := &models.Reservation{
		ReservationNumber: number,
		CustomerName:      "Dewi",
		CustomerPhone:     "+6281234567",
		ReservationTime:   at,
		EndTime:           at.Add(2 * time.Hour),
		NumberOfGuests:    2,
		Status:            status,
	}
	require.NoError(t, repo.Create(context.Background(), res, tableIDs))
	return res
}

func setupRepos(t *testing.T) (*gorm.DB, *ReservationRepository, []models.Table) {
	t.Helper()
	db := database.OpenTestDB(t)
	tables := []models.Table{
		{TableNumber: 1, Capacity: 2, IsActive: true, Status: models.TableStatusAvailable},
		{TableNumber: 2, Capacity: 4, IsActive: true, Status: models.TableStatusAvailable},
	}
	require.NoError(t, db.Create(&tables).Error)
	return db, NewReservationRepository(db), tables
}

func TestBlockingAssignmentsUsesHalfOpenWindows(t *testing.T) {
	_, repo, tables := setupRepos(t)
	ctx := context.Background()
	seedReservation(t, repo, "RSV-1", models.ReservationConfirmed, evening, tables[0].ID)

	blocking, err := repo.BlockingAssignments(ctx, []uint{tables[0].ID}, evening.Add(time.Hour), evening.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, blocking, 1)

	// back to back bookings share the boundary minute
	blocking, err = repo.BlockingAssignments(ctx, []uint{tables[0].ID}, evening.Add(2*time.Hour), evening.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, blocking)

	blocking, err = repo.BlockingAssignments(ctx, []uint{tables[1].ID}, evening, evening.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, blocking)
}

func TestCancelledReservationsDoNotBlock(t *testing.T) {
	_, repo, tables := setupRepos(t)
	ctx := context.Background()
	seedReservation(t, repo, "RSV-1", models.ReservationCancelled, evening, tables[0].ID)
	seedReservation(t, repo, "RSV-2", models.ReservationNoShow, evening, tables[0].ID)

	blocking, err := repo.BlockingAssignments(ctx, []uint{tables[0].ID}, evening, evening.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, blocking)
}

func TestTransitionStatusIsCompareAndSet(t *testing.T) {
	_, repo, tables := setupRepos(t)
	ctx := context.Background()
	res := seedReservation(t, repo, "RSV-1", models.ReservationPending, evening, tables[0].ID)

	ok, err := repo.TransitionStatus(ctx, res.ID, []models.ReservationStatus{models.ReservationPending}, models.ReservationConfirmed, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, res.ID, []models.ReservationStatus{models.ReservationPending}, models.ReservationCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, got.Status)
	require.Len(t, got.TableAssignments, 1)
	assert.Equal(t, tables[0].ID, got.TableAssignments[0].Table.ID)
}

func TestLookupsAndCounts(t *testing.T) {
	_, repo, tables := setupRepos(t)
	ctx := context.Background()
	seedReservation(t, repo, "RSV-1", models.ReservationConfirmed, evening, tables[0].ID)
	seedReservation(t, repo, "RSV-2", models.ReservationPending, evening.Add(-3*time.Hour), tables[1].ID)

	exists, err := repo.NumberExists(ctx, "RSV-2")
	require.NoError(t, err)
	assert.True(t, exists)

	missing, err := repo.GetByNumber(ctx, "RSV-404")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.ListByPhone(ctx, "+6281234567")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "RSV-1", list[0].ReservationNumber)

	guests, err := repo.CommittedGuestsAt(ctx, evening.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), guests)

	counts, err := repo.CountByStatusBetween(ctx, evening.Add(-12*time.Hour), evening.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.ReservationConfirmed])
	assert.Equal(t, int64(1), counts[models.ReservationPending])
}

func TestTableStatusCounts(t *testing.T) {
	db, _, tables := setupRepos(t)
	ctx := context.Background()
	repo := NewTableRepository(db)

	n, err := repo.SetStatus(ctx, []uint{tables[1].ID}, models.TableStatusOccupied)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.TableStatusAvailable])
	assert.Equal(t, int64(1), counts[models.TableStatusOccupied])

	occupied, err := repo.SumOccupiedCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), occupied)
}
