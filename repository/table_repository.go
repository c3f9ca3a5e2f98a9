package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-reservation/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *TableRepository) WithTx(tx *gorm.DB) *TableRepository {
	return &TableRepository{db: tx}
}

// ListActive returns active tables ordered by table number.
func (r *TableRepository) ListActive(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("table_number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("list active tables: %w", err)
	}
	return tables, nil
}

func (r *TableRepository) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.WithContext(ctx).Order("table_number ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (r *TableRepository) GetByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).First(&table, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table by id: %w", err)
	}
	return &table, nil
}

func (r *TableRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Table, error) {
	var tables []models.Table
	if len(ids) == 0 {
		return tables, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("table_number ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("find tables by ids: %w", err)
	}
	return tables, nil
}

// LockByIDs reads the rows with SELECT ... FOR UPDATE in id order. Dialects
// without row locks (sqlite) drop the locking clause.
func (r *TableRepository) LockByIDs(ctx context.Context, ids []uint) ([]models.Table, error) {
	var tables []models.Table
	if len(ids) == 0 {
		return tables, nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("lock tables: %w", err)
	}
	return tables, nil
}

func (r *TableRepository) Create(ctx context.Context, table *models.Table) error {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (r *TableRepository) Save(ctx context.Context, table *models.Table) error {
	if err := r.db.WithContext(ctx).Save(table).Error; err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	return nil
}

// SetStatus updates the status of every table in ids.
func (r *TableRepository) SetStatus(ctx context.Context, ids []uint, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id IN ?", ids).
		Update("status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("set table status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SumActiveCapacity is the total seatable capacity.
func (r *TableRepository) SumActiveCapacity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("is_active = ?", true).
		Select("COALESCE(SUM(capacity), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum active capacity: %w", err)
	}
	return total, nil
}

// SumOccupiedCapacity counts seats of active tables currently occupied.
func (r *TableRepository) SumOccupiedCapacity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("is_active = ? AND status = ?", true, models.TableStatusOccupied).
		Select("COALESCE(SUM(capacity), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum occupied capacity: %w", err)
	}
	return total, nil
}

// StatusCounts returns the number of tables per status.
func (r *TableRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tables by status: %w", err)
	}
	counts := map[string]int64{
		models.TableStatusAvailable: 0,
		models.TableStatusOccupied:  0,
		models.TableStatusDirty:     0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
