package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type ReservationController struct {
	Service  services.ReservationService
	Location *time.Location
	Clock    services.Clock
}

func NewReservationController(svc services.ReservationService, loc *time.Location, clock services.Clock) *ReservationController {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = services.SystemClock{}
	}
	return &ReservationController{Service: svc, Location: loc, Clock: clock}
}

type createReservationRequest struct {
	CustomerID      *uint     `json:"customer_id" binding:"omitempty,gt=0"`
	CustomerName    string    `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone   string    `json:"customer_phone" binding:"omitempty,phone"`
	CustomerEmail   *string   `json:"customer_email" binding:"omitempty,email"`
	ReservationTime time.Time `json:"reservation_time" binding:"required"`
	NumberOfGuests  int       `json:"number_of_guests"`
	PreferredArea   *string   `json:"preferred_area" binding:"omitempty,area"`
	TableIDs        []uint    `json:"table_ids" binding:"omitempty,max=8,dive,gt=0"`
	Notes           *string   `json:"notes" binding:"omitempty,max=1000"`
}

type cancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CreateReservation -> booking publik, status awal Pending
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var createdBy *uint
	if id := currentUserID(c); id != 0 {
		createdBy = &id
	}

	res, err := rc.Service.Create(c.Request.Context(), services.CreateReservationInput{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		ReservationTime: req.ReservationTime,
		NumberOfGuests:  req.NumberOfGuests,
		PreferredArea:   req.PreferredArea,
		TableIDs:        req.TableIDs,
		Notes:           req.Notes,
	}, createdBy)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", res)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := rc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

func (rc *ReservationController) GetReservationByNumber(c *gin.Context) {
	res, err := rc.Service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

// MyReservations -> daftar reservasi berdasarkan nomor telepon
func (rc *ReservationController) MyReservations(c *gin.Context) {
	list, err := rc.Service.ListByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations for phone", list)
}

func (rc *ReservationController) SuggestTables(c *gin.Context) {
	guests, err := strconv.Atoi(c.Query("numberOfGuests"))
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidNumberOfGuests, "numberOfGuests must be a number")
		return
	}
	at, err := time.Parse(time.RFC3339, c.Query("reservationTime"))
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, services.CodeInvalidReservationTime, "reservationTime must be an RFC 3339 timestamp")
		return
	}

	suggestions, err := rc.Service.Suggest(c.Request.Context(), guests, at, c.Query("preferredArea"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Suggested tables", suggestions)
}

func (rc *ReservationController) Capacity(c *gin.Context) {
	snap, err := rc.Service.Capacity(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current capacity", snap)
}

func (rc *ReservationController) ConfirmReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := rc.Service.Confirm(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation confirmed", res)
}

// CancelReservation -> body {reason} opsional
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req cancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	staff := currentUserID(c)
	res, err := rc.Service.Cancel(c.Request.Context(), id, &staff, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", res)
}

func (rc *ReservationController) ArriveReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := rc.Service.Arrive(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Guest arrived, order opened", result)
}

func (rc *ReservationController) MarkNoShow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	staff := currentUserID(c)
	res, err := rc.Service.MarkNoShow(c.Request.Context(), id, &staff)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation marked as no-show", res)
}

// ListReservations -> filter: date, status, phone, search, page, page_size
func (rc *ReservationController) ListReservations(c *gin.Context) {
	filter := services.ListFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Phone:  c.Query("phone"),
		Search: c.Query("search"),
	}
	if raw := c.Query("date"); raw != "" {
		date, ok := rc.parseDate(c, raw)
		if !ok {
			return
		}
		filter.Date = &date
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	page, err := rc.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", page)
}

func (rc *ReservationController) Dashboard(c *gin.Context) {
	date, ok := rc.dateOrToday(c)
	if !ok {
		return
	}
	d, err := rc.Service.Dashboard(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation dashboard", d)
}

func (rc *ReservationController) Timeline(c *gin.Context) {
	date, ok := rc.dateOrToday(c)
	if !ok {
		return
	}
	tl, err := rc.Service.Timeline(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation timeline", tl)
}

func (rc *ReservationController) dateOrToday(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return rc.Clock.Now().In(rc.Location), true
	}
	return rc.parseDate(c, raw)
}

// parseDate reads YYYY-MM-DD as a day in the restaurant's time zone.
func (rc *ReservationController) parseDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", raw, rc.Location)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, utils.CodeInvalidRequest, "date must use the YYYY-MM-DD format")
		return time.Time{}, false
	}
	return date, true
}
