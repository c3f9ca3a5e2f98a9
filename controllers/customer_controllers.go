package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type CustomerController struct {
	Customers *repository.CustomerRepository
}

func NewCustomerController(customers *repository.CustomerRepository) *CustomerController {
	return &CustomerController{Customers: customers}
}

// CreateCustomer -> staff mendaftarkan pelanggan tetap untuk booking via customer_id
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name  string  `json:"name" binding:"required,max=255"`
		Phone string  `json:"phone" binding:"required,phone"`
		Email *string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer := models.Customer{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: req.Email,
	}
	if err := cc.Customers.Create(c.Request.Context(), &customer); err != nil {
		utils.ErrorLogger.Errorf("create customer: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d)", customer.ID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "customer_id")
	if !ok {
		return
	}
	customer, err := cc.Customers.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorLogger.Errorf("load customer %d: %v", id, err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	if customer == nil {
		utils.RespondErrorCode(c, http.StatusNotFound, services.CodeCustomerNotFound, "customer not found")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}
