package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alarmclock/config"
	"alarmclock/logger"
	"alarmclock/models"
)

var DB *gorm.DB

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.DatabasePath), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DatabaseDSN), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DatabaseDSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
}

// Connect opens the configured database and migrates the schema.
func Connect(cfg *config.Config) error {
	dial, err := dialector(cfg)
	if err != nil {
		return err
	}

	gormLog, levelErr := newGormLogger(cfg.GormLogLevel)
	if levelErr != nil {
		logger.Error("invalid gorm log level", "value", cfg.GormLogLevel, "error", levelErr)
	}

	DB, err = gorm.Open(dial, &gorm.Config{Logger: gormLog})
	if err != nil {
		return err
	}

	if cfg.DatabaseDriver == config.DriverSQLite || cfg.DatabaseDriver == "" {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	return Migrate(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Alarm{}, &models.Settings{}, &models.AlarmEvent{})
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
