package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN           string
	MaxRetries    int
	RetryInterval time.Duration
}

// LoadDBConfig loads database configuration from environment variables.
// DATABASE_URL wins over the individual DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	cfg := &DBConfig{
		MaxRetries:    envInt("DB_CONNECT_RETRIES", 5),
		RetryInterval: envDur("DB_CONNECT_RETRY_INTERVAL", 5*time.Second),
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DSN = url
		return cfg, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	cfg.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, envStr("DB_SSLMODE", "disable"))
	return cfg, nil
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg *DBConfig, logger *logrus.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("Successfully connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		logger.WithError(err).Warnf("Failed to connect to database (attempt %d/%d), retrying in %v", i+1, maxRetries, cfg.RetryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// userRecord and reportRecord describe the schema only; queries go through pgx.
type userRecord struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(16);not null;default:user;check:chk_users_role,role IN ('user', 'admin')"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (userRecord) TableName() string { return "users" }

type reportRecord struct {
	ID          int64       `gorm:"primaryKey"`
	Title       string      `gorm:"type:varchar(255);not null"`
	Description string      `gorm:"type:text;not null"`
	Location    string      `gorm:"type:varchar(255);not null"`
	CrowdLevel  string      `gorm:"type:varchar(16);not null;index:idx_reports_crowd_level;check:chk_reports_crowd_level,crowd_level IN ('Low', 'Medium', 'High')"`
	CrowdCount  *int        `gorm:"check:chk_reports_crowd_count,crowd_count >= 0"`
	ImageURL    *string     `gorm:"column:image_url;type:text"`
	Status      string      `gorm:"type:varchar(16);not null;default:Pending;index:idx_reports_status;check:chk_reports_status,status IN ('Pending', 'In Progress', 'Resolved')"`
	UserID      *int64      `gorm:"index:idx_reports_user_id"`
	User        *userRecord `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_reports_created_at"`
	UpdatedAt   time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (reportRecord) TableName() string { return "reports" }

// AutoMigrate creates or updates the users and reports tables, their indexes
// and CHECK constraints. gorm runs on a database/sql handle borrowed from the pool.
func AutoMigrate(pool *pgxpool.Pool, logger *logrus.Logger) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("unable to open migration session: %w", err)
	}

	if err := gdb.AutoMigrate(&userRecord{}, &reportRecord{}); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	logger.Info("AutoMigrate applied successfully")
	return nil
}
