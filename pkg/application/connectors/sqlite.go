package connectors

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // golang sqlite driver

	"auction_scout/pkg/logx"
)

type SQLite struct {
	value        *sqlx.DB
	Path         string
	BusyTimeout  time.Duration
	MaxOpenConns int
	init         sync.Once
}

func (s *SQLite) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		s.value = lo.Must(sqlx.ConnectContext(ctx, "sqlite", s.dsn()))

		// одного writer-а достаточно, иначе ловим SQLITE_BUSY
		if s.MaxOpenConns > 0 {
			s.value.SetMaxOpenConns(s.MaxOpenConns)
		}

		lo.Must(s.value.ExecContext(ctx, `PRAGMA foreign_keys = ON`))

		logger(ctx).Info(
			"sqlite connected",
			slog.String("path", s.Path),
		)
	})

	return s.value
}

func (s *SQLite) dsn() string {
	if s.BusyTimeout <= 0 {
		return s.Path
	}

	return s.Path + "?_pragma=busy_timeout(" + strconv.FormatInt(s.BusyTimeout.Milliseconds(), 10) + ")"
}

func (s *SQLite) Close(ctx context.Context) {
	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqliteClient.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"sqlite disconnected",
		slog.String("path", s.Path),
	)
}
