package config

import "time"

// Research — параметры матчинга, фильтров и оркестрации запросов.
type Research struct {
	MatchThreshold  float64       `env:"MATCH_THRESHOLD" envDefault:"0.5" validate:"gte=0,lte=1"`
	StalenessWindow time.Duration `env:"STALENESS_WINDOW" envDefault:"2160h"` // 90 дней
	MaxObservations int           `env:"MAX_OBSERVATIONS" envDefault:"50"`

	RequestInterval time.Duration `env:"REQUEST_INTERVAL" envDefault:"2s"` // per source
	MaxAttempts     int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BackoffBase     time.Duration `env:"BACKOFF_BASE" envDefault:"500ms"`

	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"60s"`

	// Parallel разрешает опрашивать eBay и Amazon одновременно — это
	// независимые rate-домены. Внутри одного источника параллелизма нет.
	Parallel bool `env:"RESEARCH_PARALLEL" envDefault:"false"`

	RefreshCronspec string `env:"REFRESH_CRONSPEC" envDefault:"@every 6h"`
}
