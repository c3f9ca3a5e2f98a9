package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type TableController struct {
	Tables *repository.TableRepository
	Hub    *hub.Hub
}

func NewTableController(tables *repository.TableRepository, h *hub.Hub) *TableController {
	return &TableController{Tables: tables, Hub: h}
}

type createTableRequest struct {
	TableNumber int     `json:"table_number" binding:"required,gt=0"`
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Capacity    int     `json:"capacity" binding:"required,gt=0,lte=50"`
	Location    *string `json:"location" binding:"omitempty,area"`
	IsActive    *bool   `json:"is_active"`
}

type updateTableRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,gt=0,lte=50"`
	Location *string `json:"location" binding:"omitempty,area"`
	IsActive *bool   `json:"is_active"`
	Status   *string `json:"status" binding:"omitempty,oneof=available occupied dirty"`
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Location:    trimmed(req.Location),
		IsActive:    true,
		Status:      models.TableStatusAvailable,
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.Tables.Create(c.Request.Context(), &table); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			utils.RespondErrorCode(c, http.StatusConflict, utils.CodeConflict, "table number already exists")
			return
		}
		utils.ErrorLogger.Errorf("create table: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	tc.broadcast(c, hub.EventTableCreate, table)

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"capacity":     table.Capacity,
	}).Info("table created")
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var (
		tables []models.Table
		err    error
	)
	if c.Query("active") == "true" {
		tables, err = tc.Tables.ListActive(c.Request.Context())
	} else {
		tables, err = tc.Tables.List(c.Request.Context())
	}
	if err != nil {
		utils.ErrorLogger.Errorf("list tables: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable -> ubah status, kapasitas, lokasi, atau aktif/nonaktif
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	var req updateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	table, ok := tc.load(c, id)
	if !ok {
		return
	}
	if req.Name != nil {
		table.Name = req.Name
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = trimmed(req.Location)
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}
	if req.Status != nil {
		table.Status = *req.Status
	}

	if err := tc.Tables.Save(c.Request.Context(), table); err != nil {
		utils.ErrorLogger.Errorf("update table %d: %v", id, err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	tc.broadcast(c, hub.EventTableUpdate, *table)

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id": table.ID,
		"status":   table.Status,
		"active":   table.IsActive,
	}).Info("table updated")
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// MarkTableClean untuk Cleaner menandai meja siap digunakan
func (tc *TableController) MarkTableClean(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	table, ok := tc.load(c, id)
	if !ok {
		return
	}

	if table.Status != models.TableStatusDirty {
		utils.RespondErrorCode(c, http.StatusBadRequest, utils.CodeInvalidRequest, "table is not dirty")
		return
	}

	table.Status = models.TableStatusAvailable
	if err := tc.Tables.Save(c.Request.Context(), table); err != nil {
		utils.ErrorLogger.Errorf("clean table %d: %v", id, err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	tc.broadcast(c, hub.EventTableUpdate, *table)
	utils.RespondJSON(c, http.StatusOK, "Table marked as clean", table)
}

func (tc *TableController) load(c *gin.Context, id uint) (*models.Table, bool) {
	table, err := tc.Tables.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorLogger.Errorf("load table %d: %v", id, err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return nil, false
	}
	if table == nil {
		utils.RespondErrorCode(c, http.StatusNotFound, services.CodeTableNotFound, "table not found")
		return nil, false
	}
	return table, true
}

// broadcast mengirim perubahan meja beserta statistik ke layar staff
func (tc *TableController) broadcast(c *gin.Context, event string, table models.Table) {
	if tc.Hub == nil {
		return
	}
	stats, err := tc.Tables.StatusCounts(c.Request.Context())
	if err != nil {
		utils.ErrorLogger.Errorf("table stats: %v", err)
	}
	if err := tc.Hub.Broadcast(hub.Message{
		Event: event,
		Data: gin.H{
			"table": table,
			"stats": stats,
		},
	}); err != nil {
		utils.ErrorLogger.Errorf("broadcast %s: %v", event, err)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
