package config

import "time"

type SQLite struct {
	Path         string        `env:"SQLITE_PATH" envDefault:"auction_data.db"`
	BusyTimeout  time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	MaxOpenConns int           `env:"SQLITE_MAX_OPEN_CONNS" envDefault:"1"`
}
