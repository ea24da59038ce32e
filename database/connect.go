package database

import (
	"fmt"
	"jibal-shipping/config"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database and applies pool settings.
func Connect() (*gorm.DB, error) {
	dialector, err := getDialector()
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if config.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.DBMaxOpenConns)
	}
	if config.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Open wraps gorm.Open with the settings every connection shares. Constraint violations
// are translated to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if config.APP_MODE == "debug" {
		logLevel = gormlogger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
}

func getDialector() (gorm.Dialector, error) {
	switch config.DBDriver {
	case "sqlite", "":
		dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", config.DBPath)
		return sqlite.Open(dsn), nil
	case "memory":
		return sqlite.Open(memoryDSN(config.DBName)), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			config.DBHost, config.DBUser, config.DBPassword, config.DBName, config.DBPort)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}
}

// OpenMemory opens and migrates a private in-memory sqlite database named name. Handy for
// demos and tests; the data disappears with the last connection.
func OpenMemory(name string) (*gorm.DB, error) {
	db, err := Open(sqlite.Open(memoryDSN(name)))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func memoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}
