package database

import (
	"gorm.io/gorm"

	"github.com/sajjaddev-web/desk/internal/models"
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
	)
}
