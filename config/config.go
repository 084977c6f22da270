package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nat2132/event-finder/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ClerkJWTPublicKey string
	ChapaSecretKey    string

	RecommenderModelPath string
	UploadBasePath       string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:               os.Getenv("DB_HOST"),
		DBPort:               os.Getenv("DB_PORT"),
		DBUser:               os.Getenv("DB_USER"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               os.Getenv("DB_NAME"),
		ClerkJWTPublicKey:    os.Getenv("CLERK_JWT_PUBLIC_KEY"),
		ChapaSecretKey:       os.Getenv("CHAPA_SECRET_KEY"),
		RecommenderModelPath: os.Getenv("RECOMMENDER_MODEL_PATH"),
		UploadBasePath:       os.Getenv("UPLOAD_BASE_PATH"),
	}
	if cfg.ClerkJWTPublicKey == "" {
		return nil, fmt.Errorf("CLERK_JWT_PUBLIC_KEY is not configured")
	}
	if cfg.RecommenderModelPath == "" {
		cfg.RecommenderModelPath = "./recommender_models/similarity_model.json"
	}
	if cfg.UploadBasePath == "" {
		cfg.UploadBasePath = "./uploads/"
	}
	return cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Ticket{},
		&models.SavedEvent{},
		&models.UserNotification{},
		&models.AdminNotification{},
		&models.CalendarEvent{},
		&models.BillingHistory{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
