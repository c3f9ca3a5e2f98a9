package database

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

func strPtr(s string) *string { return &s }

// DefaultFloorPlan is seeded on an empty database when SEED_TABLES is set.
func DefaultFloorPlan() []models.Table {
	return []models.Table{
		{TableNumber: 1, Capacity: 2, Location: strPtr("window"), IsActive: true},
		{TableNumber: 2, Capacity: 2, Location: strPtr("window"), IsActive: true},
		{TableNumber: 3, Capacity: 4, Location: strPtr("main"), IsActive: true},
		{TableNumber: 4, Capacity: 4, Location: strPtr("main"), IsActive: true},
		{TableNumber: 5, Capacity: 4, Location: strPtr("main"), IsActive: true},
		{TableNumber: 6, Capacity: 6, Location: strPtr("main"), IsActive: true},
		{TableNumber: 7, Capacity: 4, Location: strPtr("terrace"), IsActive: true},
		{TableNumber: 8, Capacity: 8, Location: strPtr("private"), Name: strPtr("Private Room"), IsActive: true},
	}
}

// SeedTables inserts tables only when the tables table is empty.
func SeedTables(db *gorm.DB, tables []models.Table) (int, error) {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for i := range tables {
		if tables[i].Status == "" {
			tables[i].Status = models.TableStatusAvailable
		}
	}
	if err := db.Create(&tables).Error; err != nil {
		return 0, fmt.Errorf("seed tables: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	return len(tables), nil
}

// SeedAdmin creates the first admin account when no user has that email.
func SeedAdmin(db *gorm.DB, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	utils.InfoLogger.Printf("Seeded admin user %s", email)
	return true, nil
}
