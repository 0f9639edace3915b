package config

import (
	"fmt"

	"vespernexus/internal/entity"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDb(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  databaseURL,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.DeveloperCode{},
		&entity.Coupon{},
		&entity.VipOrder{},
		&entity.AuditLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}
