package db

import (
	"fmt"
	"schedulebot/pkg/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Open подключается к базе, выбранной для кэша расписания (postgres или sqlite3).
func Open(cfg *config.Config) (*sqlx.DB, error) {
	var driver, dsn string
	switch cfg.CacheDriver {
	case config.CacheDriverPostgres:
		driver = "postgres"
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
	case config.CacheDriverSQLite:
		driver = "sqlite3"
		dsn = cfg.SQLitePath
	default:
		return nil, fmt.Errorf("драйвер %q не использует базу данных", cfg.CacheDriver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logrus.Infof("Успешное подключение к базе данных (%s)", driver)
	return db, nil
}
