package infra

import (
	"fmt"

	"github.com/ismailhaddouche/PiControl/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection and migrates the schema.
// The uniqueIndex on employees.rfid_uid (nulls are not compared) is the
// storage-level guard behind the one-active-holder-per-tag rule.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Employee{},
		&model.CheckIn{},
		&model.User{},
		&model.ConfigEntry{},
		&model.AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
