package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ajmalmsali/plate-flow-orchestrator/internal/models"
)

// Open connects to the database named by driver and dsn and migrates
// the schema. Supported drivers are sqlite3 and postgres.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(
		&models.Kitchen{},
		&models.KitchenSection{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}
