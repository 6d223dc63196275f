package database

import (
	"context"
	"fmt"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the Postgres connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string

	MaxAttempts int
	Backoff     time.Duration
	AutoMigrate bool
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

func (c Config) validate() error {
	if c.User == "" {
		return fmt.Errorf("POSTGRES_USER not set")
	}
	if c.Password == "" {
		return fmt.Errorf("POSTGRES_PASSWORD not set")
	}
	if c.Name == "" {
		return fmt.Errorf("POSTGRES_DB not set")
	}
	return nil
}

// Models lists every table the shop owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Publisher{},
		&models.Category{},
		&models.Boardgame{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderLine{},
		&models.Review{},
	}
}

// ConnectPostgres opens the pool, retrying with a linear backoff until
// MaxAttempts is reached or ctx is done.
func ConnectPostgres(ctx context.Context, cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < cfg.MaxAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err == nil {
			sqlDB, poolErr := db.DB()
			if poolErr == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
			}

			logger.Info("Connected to PostgreSQL successfully", zap.String("host", cfg.Host), zap.String("db", cfg.Name))

			if cfg.AutoMigrate {
				if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
					return nil, fmt.Errorf("AutoMigrate failed: %w", err)
				}
			}
			return db, nil
		}

		logger.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("postgres connect cancelled: %w", ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.Backoff):
		}
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", cfg.MaxAttempts, err)
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
