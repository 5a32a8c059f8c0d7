package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/billcraft/invoice-api/internal/config"
	"github.com/billcraft/invoice-api/internal/domain/entity"
	"github.com/billcraft/invoice-api/pkg/utils"
)

// NewPostgresDB creates a new PostgreSQL database connection.
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities.
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.Invoice{},
		&entity.InvoiceLineItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the invoice capabilities, the roles that hold them,
// and an optional admin account configured via environment variables.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: "add-invoice"},
		{Name: "view-invoices"},
	}
	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	permsByName := make(map[string]entity.Permission, len(allPermissions))
	for _, p := range allPermissions {
		permsByName[p.Name] = p
	}

	roles := map[string][]string{
		"admin":          {"add-invoice", "view-invoices"},
		"invoice-writer": {"add-invoice", "view-invoices"},
		"invoice-reader": {"view-invoices"},
	}
	for name, permNames := range roles {
		var existing entity.Role
		if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
			continue
		}
		perms := make([]entity.Permission, 0, len(permNames))
		for _, pn := range permNames {
			if p, ok := permsByName[pn]; ok {
				perms = append(perms, p)
			}
		}
		role := entity.Role{Name: name, Permissions: perms}
		if err := db.Create(&role).Error; err != nil {
			log.Printf("Warning: failed to create role %s: %v", name, err)
		}
	}

	// Admin account from environment, if configured
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
			log.Printf("Admin user already exists: %s", adminEmail)
		} else {
			hashed, err := utils.HashPassword(adminPassword)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				var adminRole entity.Role
				if err := db.Where("name = ?", "admin").First(&adminRole).Error; err == nil {
					admin := entity.User{
						FirstName: "Admin",
						LastName:  "User",
						Email:     adminEmail,
						Password:  hashed,
						Roles:     []entity.Role{adminRole},
					}
					if err := db.Create(&admin).Error; err != nil {
						log.Printf("Warning: failed to create admin user: %v", err)
					} else {
						log.Printf("Admin user created: %s", adminEmail)
					}
				}
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
