package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// ConnectPostgres opens a standalone sqlx pool over lib/pq, retrying while the
// database comes up.
func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}

// FromORM shares the GORM connection pool with sqlx for read-side queries.
// driverName selects sqlx's bind style ("postgres" or "sqlite3").
func FromORM(gdb *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from GORM: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
