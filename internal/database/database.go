package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// InitDB initializes the database connection and performs migrations
func InitDB() (*gorm.DB, error) {
	host := getEnv("DB_HOST", "")
	port := getEnv("DB_PORT", "")
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "")
	sslmode := getEnv("DB_SSLMODE", "disable")

	if host == "" || port == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.Exec("CREATE SCHEMA IF NOT EXISTS public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to create public schema: %w", err)
	}

	err = db.Exec("SET search_path TO public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to set search_path: %w", err)
	}

	// gen_random_uuid() lives in pgcrypto before PostgreSQL 13
	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\" SCHEMA public").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	err = db.AutoMigrate(
		&models.Project{},
		&models.GenerationLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Composite index for the per-project log timeline query
	var logIndexExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM pg_indexes
			WHERE schemaname = 'public'
			AND tablename = 'generation_logs'
			AND indexname = 'idx_generation_logs_project_created'
		)
	`).Scan(&logIndexExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if generation_logs timeline index exists: %v", err)
	} else if !logIndexExists {
		logrus.Info("Creating index on generation_logs(project_id, created_at)...")
		err = db.Exec("CREATE INDEX IF NOT EXISTS idx_generation_logs_project_created ON generation_logs(project_id, created_at)").Error
		if err != nil {
			logrus.Warnf("Failed to create index on generation_logs(project_id, created_at): %v", err)
		}
	}

	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
