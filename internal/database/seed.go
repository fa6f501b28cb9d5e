package database

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// Seed loads the reference catalog and demo staff accounts. It is
// idempotent: an already-populated database is left untouched.
func Seed(db *gorm.DB) error {
	var count int
	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	kitchens := []models.Kitchen{
		{ID: "kitchen-main", Name: "Main Kitchen", Location: "Ground Floor", IsActive: true},
		{ID: "kitchen-bar", Name: "Bar & Beverages", Location: "Mezzanine", IsActive: true},
	}

	sections := []models.KitchenSection{
		{ID: "grill", Name: "Grill Station", Color: "#e76f51", KitchenID: "kitchen-main", PrinterIP: "10.0.1.21"},
		{ID: "salad", Name: "Salad Station", Color: "#2a9d8f", KitchenID: "kitchen-main", PrinterIP: "10.0.1.22"},
		{ID: "dessert", Name: "Dessert Station", Color: "#f4a261", KitchenID: "kitchen-main", PrinterIP: "10.0.1.23"},
		{ID: "beverage", Name: "Beverage Station", Color: "#264653", KitchenID: "kitchen-bar", PrinterIP: "10.0.2.21"},
	}

	menuItems := []models.MenuItem{
		{ID: "grill-1", Name: "Grilled Chicken Breast", Section: "grill", KitchenID: "kitchen-main", CookingTime: 15, Price: 24.99},
		{ID: "grill-2", Name: "Beef Steak", Section: "grill", KitchenID: "kitchen-main", CookingTime: 20, Price: 34.99},
		{ID: "grill-3", Name: "Grilled Salmon", Section: "grill", KitchenID: "kitchen-main", CookingTime: 12, Price: 28.99},
		{ID: "grill-4", Name: "BBQ Ribs", Section: "grill", KitchenID: "kitchen-main", CookingTime: 25, Price: 29.99},
		{ID: "salad-1", Name: "Caesar Salad", Section: "salad", KitchenID: "kitchen-main", CookingTime: 5, Price: 12.99},
		{ID: "salad-2", Name: "Greek Salad", Section: "salad", KitchenID: "kitchen-main", CookingTime: 5, Price: 14.99},
		{ID: "salad-3", Name: "Quinoa Bowl", Section: "salad", KitchenID: "kitchen-main", CookingTime: 8, Price: 16.99},
		{ID: "beverage-1", Name: "Fresh Orange Juice", Section: "beverage", KitchenID: "kitchen-bar", CookingTime: 2, Price: 6.99},
		{ID: "beverage-2", Name: "Cappuccino", Section: "beverage", KitchenID: "kitchen-bar", CookingTime: 3, Price: 4.99},
		{ID: "beverage-3", Name: "Iced Tea", Section: "beverage", KitchenID: "kitchen-bar", CookingTime: 1, Price: 3.99},
		{ID: "dessert-1", Name: "Chocolate Cake", Section: "dessert", KitchenID: "kitchen-main", CookingTime: 2, Price: 8.99},
		{ID: "dessert-2", Name: "Tiramisu", Section: "dessert", KitchenID: "kitchen-main", CookingTime: 3, Price: 9.99},
	}

	users := []models.User{
		{ID: "user-admin", Username: "admin", Email: "admin@plateflow.local", Password: "password", Role: models.RoleAdmin, IsActive: true},
		{ID: "user-manager", Username: "manager", Email: "manager@plateflow.local", Password: "password", Role: models.RoleManager, IsActive: true},
		{ID: "user-captain", Username: "captain", Email: "captain@plateflow.local", Password: "password", Role: models.RoleCaptain, IsActive: true},
		{ID: "user-kitchen", Username: "kitchen", Email: "kitchen@plateflow.local", Password: "password", Role: models.RoleKitchen, IsActive: true},
	}
	if err := users[3].SetKitchenAccess([]string{"kitchen-main"}); err != nil {
		return fmt.Errorf("seeding kitchen access: %w", err)
	}

	tx := db.Begin()
	for _, kitchen := range kitchens {
		if err := tx.Create(&kitchen).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding kitchen %s: %w", kitchen.ID, err)
		}
	}
	for _, section := range sections {
		if err := tx.Create(&section).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding section %s: %w", section.ID, err)
		}
	}
	for _, item := range menuItems {
		if err := models.ValidateMenuItem(&item); err != nil {
			tx.Rollback()
			return fmt.Errorf("invalid seed menu item %s: %w", item.ID, err)
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding menu item %s: %w", item.ID, err)
		}
	}
	for _, user := range users {
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("seeding user %s: %w", user.Username, err)
		}
	}
	return tx.Commit().Error
}
