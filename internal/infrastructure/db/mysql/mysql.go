package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/samihashehatta/leovegs-task/internal/infrastructure/config"
)

const defaultTimeout = 5 * time.Second

// Connect opens a MySQL connection pool and verifies connectivity with a ping.
// parseTime=true maps DATETIME columns to time.Time; loc=UTC keeps timestamps
// consistent across the service.
func Connect(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}
