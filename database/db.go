package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fridgekeeper/config"
	"fridgekeeper/logger"
	"fridgekeeper/models"
)

// Open connects to the configured database and runs migrations.
// DB_DRIVER selects the dialect: "postgres" (default) or "sqlite" for
// local single-file setups.
func Open() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver := config.GetEnv("DB_DRIVER", "postgres"); driver {
	case "sqlite":
		dialector = sqlite.Open(config.GetEnv("DB_PATH", "fridgekeeper.db"))
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetEnv("DB_HOST", "localhost"),
			config.GetEnv("DB_USER", "postgres"),
			config.GetEnv("DB_PASSWORD", "password"),
			config.GetEnv("DB_NAME", "fridgekeeper"),
			config.GetEnv("DB_PORT", "5432"),
			config.GetEnv("DB_SSLMODE", "disable"))
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all domain tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Allergy{},
		&models.UserAllergy{},
		&models.Ingredient{},
		&models.AllergyIngredient{},
		&models.FridgeItem{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Like{},
		&models.Purchase{},
	)
}
