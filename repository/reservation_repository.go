package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

// BlockingAssignment is one table held by an active reservation.
type BlockingAssignment struct {
	ReservationID   uint
	TableID         uint
	ReservationTime time.Time
	EndTime         time.Time
	Status          string
}

type ReservationFilter struct {
	From     *time.Time
	To       *time.Time
	Status   models.ReservationStatus
	Phone    string
	Search   string
	Page     int
	PageSize int
}

func statusStrings(statuses []models.ReservationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// Create inserts the reservation and one assignment row per table.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation, tableIDs []uint) error {
	res.TableAssignments = nil
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	assignments := make([]models.ReservationTable, 0, len(tableIDs))
	for _, id := range tableIDs {
		assignments = append(assignments, models.ReservationTable{
			ReservationID: res.ID,
			TableID:       id,
		})
	}
	if len(assignments) > 0 {
		if err := r.db.WithContext(ctx).Omit("Table").Create(&assignments).Error; err != nil {
			return fmt.Errorf("create reservation tables: %w", err)
		}
	}
	res.TableAssignments = assignments
	return nil
}

func (r *ReservationRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("TableAssignments", func(db *gorm.DB) *gorm.DB {
		return db.Order("reservation_tables.id ASC")
	}).Preload("TableAssignments.Table")
}

// GetByID returns nil, nil when the reservation does not exist.
func (r *ReservationRepository) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.preloaded(ctx).First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}
	return &res, nil
}

// LockByID reads the reservation row with FOR UPDATE.
func (r *ReservationRepository) LockByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) GetByNumber(ctx context.Context, number string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.preloaded(ctx).Where("reservation_number = ?", number).First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by number: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("reservation_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check reservation number: %w", err)
	}
	return count > 0, nil
}

// ListByPhone returns the reservations of one phone number, newest first.
func (r *ReservationRepository) ListByPhone(ctx context.Context, phone string) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.preloaded(ctx).
		Where("customer_phone = ?", phone).
		Order("reservation_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations by phone: %w", err)
	}
	return list, nil
}

// List applies the filter and returns one page plus the total match count.
func (r *ReservationRepository) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Reservation{})
	if f.From != nil {
		q = q.Where("reservation_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("reservation_time < ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Phone != "" {
		q = q.Where("customer_phone = ?", f.Phone)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(customer_name) LIKE ? OR LOWER(reservation_number) LIKE ? OR customer_phone LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	var list []models.Reservation
	err := q.Preload("TableAssignments").Preload("TableAssignments.Table").
		Order("reservation_time ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return list, total, nil
}

// ListBetween returns every reservation starting in [from, to).
func (r *ReservationRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var list []models.Reservation
	err := r.preloaded(ctx).
		Where("reservation_time >= ? AND reservation_time < ?", from, to).
		Order("reservation_time ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations between: %w", err)
	}
	return list, nil
}

// BlockingAssignments returns assignments on tableIDs whose reservation is
// active and whose window intersects [start, end).
func (r *ReservationRepository) BlockingAssignments(ctx context.Context, tableIDs []uint, start, end time.Time) ([]BlockingAssignment, error) {
	var rows []BlockingAssignment
	if len(tableIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("reservation_tables AS rt").
		Select("rt.reservation_id, rt.table_id, r.reservation_time, r.end_time, r.status").
		Joins("JOIN reservations r ON r.id = rt.reservation_id").
		Where("rt.table_id IN ?", tableIDs).
		Where("r.status IN ?", statusStrings(models.ActiveReservationStatuses)).
		Where("r.reservation_time < ? AND r.end_time > ?", end, start).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query blocking assignments: %w", err)
	}
	return rows, nil
}

// AssignedTableIDs returns the table ids assigned to a reservation.
func (r *ReservationRepository) AssignedTableIDs(ctx context.Context, reservationID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ReservationTable{}).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Pluck("table_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list assigned tables: %w", err)
	}
	return ids, nil
}

// TransitionStatus moves the reservation to `to` only if its current status
// is one of from. It reports false when no row matched.
func (r *ReservationRepository) TransitionStatus(ctx context.Context, id uint, from []models.ReservationStatus, to models.ReservationStatus, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": string(to)}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(values)
	if result.Error != nil {
		return false, fmt.Errorf("transition reservation %d to %s: %w", id, to, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SetOrderID links the order opened on arrival.
func (r *ReservationRepository) SetOrderID(ctx context.Context, id, orderID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("order_id", orderID).Error
	if err != nil {
		return fmt.Errorf("set reservation order: %w", err)
	}
	return nil
}

// ListOverdue returns reservations in status whose start is before cutoff.
func (r *ReservationRepository) ListOverdue(ctx context.Context, status models.ReservationStatus, cutoff time.Time, limit int) ([]models.Reservation, error) {
	var list []models.Reservation
	q := r.db.WithContext(ctx).
		Where("status = ? AND reservation_time < ?", string(status), cutoff).
		Order("reservation_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list overdue reservations: %w", err)
	}
	return list, nil
}

// CommittedGuestsAt sums guests of confirmed or seated parties whose window
// contains at.
func (r *ReservationRepository) CommittedGuestsAt(ctx context.Context, at time.Time) (int64, error) {
	var total int64
	committed := []models.ReservationStatus{models.ReservationConfirmed, models.ReservationArrived}
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status IN ?", statusStrings(committed)).
		Where("reservation_time <= ? AND end_time > ?", at, at).
		Select("COALESCE(SUM(number_of_guests), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum committed guests: %w", err)
	}
	return total, nil
}

// CountByStatusBetween counts reservations starting in [from, to) per status.
func (r *ReservationRepository) CountByStatusBetween(ctx context.Context, from, to time.Time) (map[models.ReservationStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("status, COUNT(*) AS count").
		Where("reservation_time >= ? AND reservation_time < ?", from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count reservations by status: %w", err)
	}
	counts := make(map[models.ReservationStatus]int64, len(models.AllReservationStatuses))
	for _, s := range models.AllReservationStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[models.ReservationStatus(row.Status)] = row.Count
	}
	return counts, nil
}
