package database

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kondate-app/menu-helper/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// User is the owner record. Profile is an opaque bag owned by the client;
// the usage columns host the per-day invocation counter.
type User struct {
	gorm.Model
	OwnerID    string          `gorm:"uniqueIndex;size:128"`
	Profile    json.RawMessage `gorm:"type:jsonb"`
	UsageDay   string          `gorm:"size:10"` // "YYYY-MM-DD" in the reporting timezone
	UsageCount int             `gorm:"default:0"`
}

// MenuHistory is one finalized plan, upserted per owner and date.
type MenuHistory struct {
	ID        uint            `gorm:"primaryKey"`
	OwnerID   string          `gorm:"size:128;uniqueIndex:idx_owner_date"`
	Date      string          `gorm:"size:10;uniqueIndex:idx_owner_date"`
	Input     json.RawMessage `gorm:"type:jsonb"`
	Output    json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &MenuHistory{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	log.Println("Database connection established and migrations completed")
	return db, nil
}
