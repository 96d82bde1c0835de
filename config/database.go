package config

import (
	"fmt"

	"github.com/serac-labs/seracpay/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the shared database handle, initialized exactly once by InitDB.
// Components receive it by injection; only main and the router setup should
// reference it directly.
var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema.
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	// The unique index on (brand_id, transaction_id) comes from the model
	// tags. It is the safety net behind the engine's query-then-insert
	// duplicate check: a violation under concurrent delivery is reported to
	// the engine as "already processed", not as a fault.
	err = DB.AutoMigrate(
		&models.Order{},
		&models.Quote{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}
}
