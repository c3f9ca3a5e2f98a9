package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

const (
	numberAttempts = 3
	ExpiredReason  = "expired: not confirmed before reservation time"
)

type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput, userID *uint) (*models.Reservation, error)
	Confirm(ctx context.Context, id, staffUserID uint) (*models.Reservation, error)
	Cancel(ctx context.Context, id uint, staffUserID *uint, reason string) (*models.Reservation, error)
	Arrive(ctx context.Context, id, staffUserID uint) (*ArrivalResult, error)
	MarkNoShow(ctx context.Context, id uint, staffUserID *uint) (*models.Reservation, error)

	Get(ctx context.Context, id uint) (*models.Reservation, error)
	GetByNumber(ctx context.Context, number string) (*models.Reservation, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Reservation, error)
	List(ctx context.Context, f ListFilter) (*ReservationPage, error)
	Dashboard(ctx context.Context, date time.Time) (*Dashboard, error)
	Timeline(ctx context.Context, date time.Time) (*Timeline, error)

	Suggest(ctx context.Context, guests int, at time.Time, preferredArea string) ([]TableSuggestion, error)
	Capacity(ctx context.Context) (CapacitySnapshot, error)
	ValidateTime(t time.Time) bool
	SweepOverdue(ctx context.Context) (SweepResult, error)
}

type CreateReservationInput struct {
	CustomerID      *uint
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	ReservationTime time.Time
	NumberOfGuests  int
	PreferredArea   *string
	TableIDs        []uint
	Notes           *string
}

type ArrivalResult struct {
	Reservation *models.Reservation `json:"reservation"`
	OrderID     uint                `json:"order_id"`
}

type ListFilter struct {
	Date     *time.Time
	Status   string
	Phone    string
	Search   string
	Page     int
	PageSize int
}

type ReservationPage struct {
	Items    []models.Reservation `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

type SweepResult struct {
	NoShows int `json:"no_shows"`
	Expired int `json:"expired"`
}

type ReservationServiceDeps struct {
	DB                *gorm.DB
	Policy            BookingPolicy
	Clock             Clock
	Locker            *KeyedLocker
	Notifier          ReservationNotifier
	Orders            OrderCreator
	NotifyTimeout     time.Duration
	NoShowGrace       time.Duration
	CapacityThreshold float64
}

// ReservationManager is the gorm-backed ReservationService.
type ReservationManager struct {
	db            *gorm.DB
	reservations  *repository.ReservationRepository
	tables        *repository.TableRepository
	customers     *repository.CustomerRepository
	availability  *AvailabilityIndex
	suggestions   *SuggestionEngine
	capacity      *CapacityEstimator
	policy        BookingPolicy
	clock         Clock
	locker        *KeyedLocker
	notifier      ReservationNotifier
	orders        OrderCreator
	notifyTimeout time.Duration
	noShowGrace   time.Duration
	wg            sync.WaitGroup
}

var _ ReservationService = (*ReservationManager)(nil)

func NewReservationService(deps ReservationServiceDeps) *ReservationManager {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Locker == nil {
		deps.Locker = NewKeyedLocker(5 * time.Second)
	}
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	if deps.Orders == nil {
		deps.Orders = GormOrderCreator{}
	}
	if deps.NotifyTimeout <= 0 {
		deps.NotifyTimeout = 5 * time.Second
	}
	if deps.Policy.ServiceDuration <= 0 {
		deps.Policy.ServiceDuration = DefaultBookingPolicy().ServiceDuration
	}

	reservations := repository.NewReservationRepository(deps.DB)
	tables := repository.NewTableRepository(deps.DB)
	availability := NewAvailabilityIndex(reservations)

	return &ReservationManager{
		db:            deps.DB,
		reservations:  reservations,
		tables:        tables,
		customers:     repository.NewCustomerRepository(deps.DB),
		availability:  availability,
		suggestions:   NewSuggestionEngine(tables, availability, deps.Policy),
		capacity:      NewCapacityEstimator(reservations, tables, deps.Clock, deps.CapacityThreshold),
		policy:        deps.Policy,
		clock:         deps.Clock,
		locker:        deps.Locker,
		notifier:      deps.Notifier,
		orders:        deps.Orders,
		notifyTimeout: deps.NotifyTimeout,
		noShowGrace:   deps.NoShowGrace,
	}
}

// ValidateTime checks the requested instant as given. Truncation to the
// storage minute happens only after validation.
func (s *ReservationManager) ValidateTime(t time.Time) bool {
	return s.policy.ValidateTime(t.UTC(), s.clock.Now())
}

func (s *ReservationManager) Suggest(ctx context.Context, guests int, at time.Time, preferredArea string) ([]TableSuggestion, error) {
	return s.suggestions.Suggest(ctx, guests, at, preferredArea)
}

func (s *ReservationManager) Capacity(ctx context.Context) (CapacitySnapshot, error) {
	return s.capacity.Snapshot(ctx)
}

// Create books a reservation in Pending. The table locks are taken before the
// transaction opens and held until it commits.
func (s *ReservationManager) Create(ctx context.Context, in CreateReservationInput, userID *uint) (*models.Reservation, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if in.CustomerID == nil && (in.CustomerName == "" || in.CustomerPhone == "") {
		return nil, ValidationError(CodeMissingCustomerInfo, "customer_id or customer name and phone are required")
	}
	if !s.policy.ValidGuests(in.NumberOfGuests) {
		return nil, ValidationError(CodeInvalidNumberOfGuests,
			fmt.Sprintf("number of guests must be between 1 and %d", s.policy.MaxGuests))
	}
	now := s.clock.Now()
	if !s.policy.ValidateTime(in.ReservationTime.UTC(), now) {
		return nil, ValidationError(CodeInvalidReservationTime,
			fmt.Sprintf("reservation time must be at least %s ahead and between %02d:00 and %02d:59",
				s.policy.MinLeadTime, s.policy.OpeningHour, s.policy.LastSeatingHour))
	}

	at := normalizeTime(in.ReservationTime)

	if in.CustomerID != nil {
		customer, err := s.customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, InternalError("failed to load customer", err)
		}
		if customer == nil {
			return nil, NotFoundError(CodeCustomerNotFound, "customer not found")
		}
		if in.CustomerName == "" {
			in.CustomerName = customer.Name
		}
		if in.CustomerPhone == "" {
			in.CustomerPhone = customer.Phone
		}
		if in.CustomerEmail == nil {
			in.CustomerEmail = customer.Email
		}
	}

	explicit := uniqueIDs(in.TableIDs)
	candidateIDs, err := s.createCandidates(ctx, explicit, in.NumberOfGuests)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, tableKeys(candidateIDs)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var preferredArea string
	if in.PreferredArea != nil {
		preferredArea = *in.PreferredArea
	}

	var res *models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.tables.WithTx(tx).LockByIDs(ctx, candidateIDs)
		if err != nil {
			return err
		}
		active := make([]models.Table, 0, len(locked))
		activeIDs := make([]uint, 0, len(locked))
		for _, t := range locked {
			if t.IsActive {
				active = append(active, t)
				activeIDs = append(activeIDs, t.ID)
			}
		}
		if len(explicit) > 0 && len(active) != len(explicit) {
			return ValidationError(CodeTableInactive, "one or more requested tables are inactive")
		}

		availability := s.availability.WithTx(tx)
		var free map[uint]struct{}
		if len(explicit) > 0 {
			free, err = explicitFree(ctx, availability, activeIDs, at, s.policy.ServiceDuration)
		} else {
			free, err = availability.FindFree(ctx, activeIDs, at, s.policy.ServiceDuration)
		}
		if err != nil {
			return err
		}

		chosen, err := chooseTables(active, free, explicit, in.NumberOfGuests, preferredArea)
		if err != nil {
			return err
		}

		repo := s.reservations.WithTx(tx)
		number, err := s.generateNumber(ctx, repo, now)
		if err != nil {
			return err
		}

		res = &models.Reservation{
			ReservationNumber: number,
			CustomerID:        in.CustomerID,
			CustomerName:      in.CustomerName,
			CustomerPhone:     in.CustomerPhone,
			CustomerEmail:     in.CustomerEmail,
			ReservationTime:   at,
			EndTime:           at.Add(s.policy.ServiceDuration),
			NumberOfGuests:    in.NumberOfGuests,
			PreferredArea:     in.PreferredArea,
			Status:            models.ReservationPending,
			Notes:             in.Notes,
			CreatedByUserID:   userID,
		}
		chosenIDs := make([]uint, 0, len(chosen))
		for _, t := range chosen {
			chosenIDs = append(chosenIDs, t.ID)
		}
		if err := repo.Create(ctx, res, chosenIDs); err != nil {
			return err
		}
		for i := range res.TableAssignments {
			res.TableAssignments[i].Table = chosen[i]
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "failed to create reservation")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id":     res.ID,
		"reservation_number": res.ReservationNumber,
		"reservation_time":   res.ReservationTime,
		"guests":             res.NumberOfGuests,
		"tables":             res.TableIDs(),
	}).Info("reservation created")

	s.dispatch(EventCreated, res)
	return res, nil
}

// createCandidates validates explicit table picks, or returns every active
// table when the caller left the choice to us.
func (s *ReservationManager) createCandidates(ctx context.Context, explicit []uint, guests int) ([]uint, error) {
	if len(explicit) == 0 {
		tables, err := s.tables.ListActive(ctx)
		if err != nil {
			return nil, InternalError("failed to load tables", err)
		}
		ids := make([]uint, 0, len(tables))
		for _, t := range tables {
			ids = append(ids, t.ID)
		}
		return ids, nil
	}

	tables, err := s.tables.FindByIDs(ctx, explicit)
	if err != nil {
		return nil, InternalError("failed to load tables", err)
	}
	if len(tables) != len(explicit) {
		return nil, NotFoundError(CodeTableNotFound, "one or more requested tables do not exist")
	}
	seats := 0
	for _, t := range tables {
		if !t.IsActive {
			return nil, ValidationError(CodeTableInactive, fmt.Sprintf("%s is inactive", t.DisplayName()))
		}
		seats += t.Capacity
	}
	if seats < guests {
		return nil, ValidationError(CodeInsufficientCapacity,
			fmt.Sprintf("requested tables seat %d, party has %d guests", seats, guests))
	}
	return explicit, nil
}

// explicitFree checks each requested table on its own so the caller learns
// which pick is taken.
func explicitFree(ctx context.Context, availability *AvailabilityIndex, ids []uint, at time.Time, d time.Duration) (map[uint]struct{}, error) {
	free := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		ok, err := availability.IsAvailable(ctx, id, at, d)
		if err != nil {
			return nil, err
		}
		if ok {
			free[id] = struct{}{}
		}
	}
	return free, nil
}

// chooseTables runs inside the create transaction on freshly locked rows.
func chooseTables(active []models.Table, free map[uint]struct{}, explicit []uint, guests int, preferredArea string) ([]models.Table, error) {
	if len(explicit) > 0 {
		for _, t := range active {
			if _, ok := free[t.ID]; !ok {
				return nil, ConflictError(CodeNoAvailability,
					fmt.Sprintf("%s is already booked for that time", t.DisplayName()))
			}
		}
		return active, nil
	}

	if ranked := rankTables(active, free, guests, preferredArea); len(ranked) > 0 {
		return ranked[:1], nil
	}
	if combined := combineTables(active, free, guests, preferredArea); len(combined) > 0 {
		return combined, nil
	}
	return nil, ConflictError(CodeNoAvailability, "no table is available for that time and party size")
}

func (s *ReservationManager) generateNumber(ctx context.Context, repo *repository.ReservationRepository, now time.Time) (string, error) {
	prefix := "RSV" + now.In(s.policy.location()).Format("060102") + "-"
	for i := 0; i < numberAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		number := prefix + suffix
		exists, err := repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", errors.New("could not generate a unique reservation number")
}

func (s *ReservationManager) Confirm(ctx context.Context, id, staffUserID uint) (*models.Reservation, error) {
	now := s.clock.Now()
	res, changed, err := s.transition(ctx, id, models.ReservationConfirmed, CodeCannotConfirm, true, map[string]interface{}{
		"confirmed_by_user_id": staffUserID,
		"confirmed_at":         now,
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.dispatch(EventConfirmed, res)
	}
	return res, nil
}

func (s *ReservationManager) Cancel(ctx context.Context, id uint, staffUserID *uint, reason string) (*models.Reservation, error) {
	updates := map[string]interface{}{
		"cancelled_at":         s.clock.Now(),
		"cancelled_by_user_id": staffUserID,
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		updates["cancel_reason"] = reason
	}
	res, _, err := s.transition(ctx, id, models.ReservationCancelled, CodeCannotCancel, false, updates)
	if err != nil {
		return nil, err
	}
	s.dispatch(EventCancelled, res)
	return res, nil
}

func (s *ReservationManager) MarkNoShow(ctx context.Context, id uint, staffUserID *uint) (*models.Reservation, error) {
	res, _, err := s.transition(ctx, id, models.ReservationNoShow, CodeCannotMarkNoShow, false, nil)
	if err != nil {
		return nil, err
	}
	fields := logrus.Fields{"reservation_id": id}
	if staffUserID != nil {
		fields["staff_user_id"] = *staffUserID
	}
	utils.InfoLogger.WithFields(fields).Info("reservation marked as no-show")
	s.dispatch(EventNoShow, res)
	return res, nil
}

// transition applies a compare-and-set status change under the reservation
// lock. With idempotent set, a reservation already in `to` is returned
// unchanged.
func (s *ReservationManager) transition(ctx context.Context, id uint, to models.ReservationStatus, code string, idempotent bool, updates map[string]interface{}) (*models.Reservation, bool, error) {
	unlock, err := s.lock(ctx, ReservationKey(id))
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var changed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.reservations.WithTx(tx)
		current, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError(CodeReservationNotFound, "reservation not found")
		}
		if idempotent && current.Status == to {
			return nil
		}
		if !current.Status.CanTransitionTo(to) {
			return IllegalTransitionError(code,
				fmt.Sprintf("reservation is %s and cannot become %s", current.Status, to))
		}
		ok, err := repo.TransitionStatus(ctx, id, models.SourcesFor(to), to, updates)
		if err != nil {
			return err
		}
		if !ok {
			return IllegalTransitionError(code, "reservation status changed concurrently")
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, asServiceError(err, "failed to update reservation")
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, false, InternalError("failed to reload reservation", err)
	}
	if res == nil {
		return nil, false, NotFoundError(CodeReservationNotFound, "reservation not found")
	}
	if changed {
		utils.InfoLogger.WithFields(logrus.Fields{
			"reservation_id":     res.ID,
			"reservation_number": res.ReservationNumber,
			"status":             res.Status,
		}).Info("reservation status changed")
	}
	return res, changed, nil
}

// Arrive seats a confirmed party. The status change, the occupied tables and
// the new order commit together or not at all.
func (s *ReservationManager) Arrive(ctx context.Context, id, staffUserID uint) (*ArrivalResult, error) {
	tableIDs, err := s.reservations.AssignedTableIDs(ctx, id)
	if err != nil {
		return nil, InternalError("failed to load reservation tables", err)
	}

	keys := append([]string{ReservationKey(id)}, tableKeys(tableIDs)...)
	unlock, err := s.lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.clock.Now()
	var orderID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.reservations.WithTx(tx)
		current, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError(CodeReservationNotFound, "reservation not found")
		}
		if !current.Status.CanTransitionTo(models.ReservationArrived) {
			return IllegalTransitionError(CodeCannotArrive,
				fmt.Sprintf("reservation is %s and cannot be marked as arrived", current.Status))
		}
		if len(tableIDs) == 0 {
			return errors.New("reservation has no assigned tables")
		}

		tables := s.tables.WithTx(tx)
		if _, err := tables.LockByIDs(ctx, tableIDs); err != nil {
			return err
		}
		ok, err := repo.TransitionStatus(ctx, id, []models.ReservationStatus{models.ReservationConfirmed}, models.ReservationArrived,
			map[string]interface{}{
				"arrived_by_user_id": staffUserID,
				"arrived_at":         now,
			})
		if err != nil {
			return err
		}
		if !ok {
			return IllegalTransitionError(CodeCannotArrive, "reservation status changed concurrently")
		}
		if _, err := tables.SetStatus(ctx, tableIDs, models.TableStatusOccupied); err != nil {
			return err
		}

		current.Status = models.ReservationArrived
		orderID, err = s.orders.CreateForReservation(ctx, tx, current, tableIDs)
		if err != nil {
			return InternalError("failed to create order for arrival", err)
		}
		return repo.SetOrderID(ctx, id, orderID)
	})
	if err != nil {
		return nil, asServiceError(err, "failed to record arrival")
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, InternalError("failed to reload reservation", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id":     res.ID,
		"reservation_number": res.ReservationNumber,
		"order_id":           orderID,
		"tables":             tableIDs,
	}).Info("reservation arrived")

	s.dispatch(EventArrived, res)
	return &ArrivalResult{Reservation: res, OrderID: orderID}, nil
}

// SweepOverdue marks confirmed parties past the grace period as no-shows and
// cancels pending requests that were never confirmed in time.
func (s *ReservationManager) SweepOverdue(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	cutoff := s.clock.Now().Add(-s.noShowGrace)

	confirmed, err := s.reservations.ListOverdue(ctx, models.ReservationConfirmed, cutoff, 100)
	if err != nil {
		return result, InternalError("failed to list overdue reservations", err)
	}
	for _, r := range confirmed {
		if _, err := s.MarkNoShow(ctx, r.ID, nil); err != nil {
			if IsKind(err, KindIllegalTransition) || IsKind(err, KindNotFound) {
				continue
			}
			return result, err
		}
		result.NoShows++
	}

	pending, err := s.reservations.ListOverdue(ctx, models.ReservationPending, cutoff, 100)
	if err != nil {
		return result, InternalError("failed to list overdue reservations", err)
	}
	for _, r := range pending {
		if _, err := s.Cancel(ctx, r.ID, nil, ExpiredReason); err != nil {
			if IsKind(err, KindIllegalTransition) || IsKind(err, KindNotFound) {
				continue
			}
			return result, err
		}
		result.Expired++
	}
	return result, nil
}

func (s *ReservationManager) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, InternalError("failed to load reservation", err)
	}
	if res == nil {
		return nil, NotFoundError(CodeReservationNotFound, "reservation not found")
	}
	return res, nil
}

func (s *ReservationManager) GetByNumber(ctx context.Context, number string) (*models.Reservation, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, ValidationError(CodeInvalidRequest, "reservation number is required")
	}
	res, err := s.reservations.GetByNumber(ctx, number)
	if err != nil {
		return nil, InternalError("failed to load reservation", err)
	}
	if res == nil {
		return nil, NotFoundError(CodeReservationNotFound, "reservation not found")
	}
	return res, nil
}

func (s *ReservationManager) ListByPhone(ctx context.Context, phone string) ([]models.Reservation, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ValidationError(CodeInvalidRequest, "phone is required")
	}
	list, err := s.reservations.ListByPhone(ctx, phone)
	if err != nil {
		return nil, InternalError("failed to list reservations", err)
	}
	return list, nil
}

func (s *ReservationManager) List(ctx context.Context, f ListFilter) (*ReservationPage, error) {
	filter := repository.ReservationFilter{
		Phone:    strings.TrimSpace(f.Phone),
		Search:   f.Search,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if f.Status != "" {
		st, err := models.ParseReservationStatus(f.Status)
		if err != nil {
			return nil, ValidationError(CodeInvalidRequest, err.Error())
		}
		filter.Status = st
	}
	if f.Date != nil {
		from, to := s.policy.DayBounds(*f.Date)
		filter.From, filter.To = &from, &to
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, InternalError("failed to list reservations", err)
	}
	return &ReservationPage{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (s *ReservationManager) lock(ctx context.Context, keys ...string) (func(), error) {
	unlock, err := s.locker.Lock(ctx, keys...)
	if err != nil {
		if errors.Is(err, ErrLockTimeout) {
			return nil, ConflictError(CodeReservationBusy, "the reservation or table is busy, try again")
		}
		return nil, InternalError("failed to acquire lock", err)
	}
	return unlock, nil
}

// dispatch notifies sinks after commit without blocking the caller.
func (s *ReservationManager) dispatch(eventType string, res *models.Reservation) {
	event := newReservationEvent(eventType, res, s.clock.Now())
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"reservation_id": event.ReservationID,
				"event":          event.Type,
			}).Errorf("failed to deliver reservation notification: %v", err)
		}
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *ReservationManager) Wait() {
	s.wg.Wait()
}

func asServiceError(err error, message string) error {
	var re *ReservationError
	if errors.As(err, &re) {
		return re
	}
	return InternalError(message, err)
}

func uniqueIDs(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
