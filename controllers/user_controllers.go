package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/repository"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	Users    *repository.UserRepository
	TokenTTL time.Duration
}

func NewUserController(users *repository.UserRepository, ttl time.Duration) *UserController {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UserController{Users: users, TokenTTL: ttl}
}

// Register -> admin membuat akun staff baru
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required,oneof=admin staff cleaner"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	existing, err := uc.Users.GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		utils.ErrorLogger.Errorf("lookup user: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	if existing != nil {
		utils.RespondErrorCode(c, http.StatusConflict, utils.CodeConflict, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(req.Email),
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := uc.Users.Create(c.Request.Context(), &user); err != nil {
		utils.ErrorLogger.Errorf("create user: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.Users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		utils.ErrorLogger.Errorf("lookup user: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, uc.TokenTTL)
	if err != nil {
		utils.ErrorLogger.Errorf("generate token: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(user.Role),
	})
}

// GetProfile -> memeriksa user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	user, err := uc.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorLogger.Errorf("load profile: %v", err)
		utils.RespondErrorCode(c, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
		return
	}
	if user == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}
