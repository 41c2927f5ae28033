package main

import (
	"fmt"

	"linkvault/models"
	"linkvault/pkg/access"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB(dsn string) error {
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	return migrateDB(db)
}

// migrateDB migrates models individually so a failure on one doesn't block
// others, then seeds the master roles.
func migrateDB(g *gorm.DB) error {
	for _, m := range []any{&models.Role{}, &models.User{}, &models.Bookmark{}, &models.PasswordResetToken{}} {
		if err := g.AutoMigrate(m); err != nil {
			logger.Warn("migration warning", zap.Error(err))
		}
	}
	return seedRoles(g)
}

func seedRoles(g *gorm.DB) error {
	roles := []models.Role{
		{Name: access.RoleAdmin, Description: "full access"},
		{Name: access.RoleUser, Description: "regular user"},
	}
	for _, r := range roles {
		var existing models.Role
		if err := g.Where(models.Role{Name: r.Name}).Attrs(r).FirstOrCreate(&existing).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	return nil
}
