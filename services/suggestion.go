package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
)

type TableSuggestion struct {
	TableID     uint    `json:"table_id"`
	TableNumber int     `json:"table_number"`
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	Location    *string `json:"location,omitempty"`
}

func newTableSuggestion(t models.Table) TableSuggestion {
	return TableSuggestion{
		TableID:     t.ID,
		TableNumber: t.TableNumber,
		Name:        t.DisplayName(),
		Capacity:    t.Capacity,
		Location:    t.Location,
	}
}

// SuggestionEngine proposes free tables for a party. It takes no locks, so
// its answer is advisory until Create commits.
type SuggestionEngine struct {
	tables       *repository.TableRepository
	availability *AvailabilityIndex
	policy       BookingPolicy
}

func NewSuggestionEngine(tables *repository.TableRepository, availability *AvailabilityIndex, policy BookingPolicy) *SuggestionEngine {
	return &SuggestionEngine{tables: tables, availability: availability, policy: policy}
}

func (e *SuggestionEngine) Suggest(ctx context.Context, guests int, at time.Time, preferredArea string) ([]TableSuggestion, error) {
	if !e.policy.ValidGuests(guests) {
		return nil, ValidationError(CodeInvalidNumberOfGuests, "number of guests is out of range")
	}
	at = normalizeTime(at)

	tables, err := e.tables.ListActive(ctx)
	if err != nil {
		return nil, InternalError("failed to load tables", err)
	}
	ids := make([]uint, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	free, err := e.availability.FindFree(ctx, ids, at, e.policy.ServiceDuration)
	if err != nil {
		return nil, InternalError("failed to check availability", err)
	}

	ranked := rankTables(tables, free, guests, preferredArea)
	out := make([]TableSuggestion, 0, len(ranked))
	for _, t := range ranked {
		out = append(out, newTableSuggestion(t))
	}
	return out, nil
}

// rankTables keeps active free tables that seat the party, ordered by area
// match, then smallest capacity, then table number.
func rankTables(tables []models.Table, free map[uint]struct{}, guests int, preferredArea string) []models.Table {
	area := normalizeArea(preferredArea)
	out := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		if !t.IsActive || t.Capacity < guests {
			continue
		}
		if _, ok := free[t.ID]; !ok {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if area != "" {
			mi, mj := normalizeArea(out[i].Area()) == area, normalizeArea(out[j].Area()) == area
			if mi != mj {
				return mi
			}
		}
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].TableNumber < out[j].TableNumber
	})
	return out
}

// combineTables picks free tables, preferred area first and largest first,
// until their seats cover the party. It returns nil when all free tables
// together are too small.
func combineTables(tables []models.Table, free map[uint]struct{}, guests int, preferredArea string) []models.Table {
	area := normalizeArea(preferredArea)
	pool := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		if _, ok := free[t.ID]; ok && t.IsActive {
			pool = append(pool, t)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if area != "" {
			mi, mj := normalizeArea(pool[i].Area()) == area, normalizeArea(pool[j].Area()) == area
			if mi != mj {
				return mi
			}
		}
		if pool[i].Capacity != pool[j].Capacity {
			return pool[i].Capacity > pool[j].Capacity
		}
		return pool[i].TableNumber < pool[j].TableNumber
	})

	var picked []models.Table
	seats := 0
	for _, t := range pool {
		picked = append(picked, t)
		seats += t.Capacity
		if seats >= guests {
			return picked
		}
	}
	return nil
}

func normalizeArea(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
