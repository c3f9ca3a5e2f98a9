package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications -> notifikasi reservasi terbaru, bisa difilter per reservation_id
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 50
	}

	q := nc.DB.WithContext(c.Request.Context()).Order("created_at DESC, id DESC").Limit(limit)
	if raw := c.Query("reservation_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondErrorCode(c, http.StatusBadRequest, utils.CodeInvalidRequest, "invalid reservation_id")
			return
		}
		q = q.Where("reservation_id = ?", id)
	}

	var notifs []models.Notification
	if err := q.Find(&notifs).Error; err != nil {
		utils.ErrorLogger.Errorf("list notifications: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}
