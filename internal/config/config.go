package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	SQLite   SQLite
	Redis    Redis
	Server   Server
	Fees     Fees
	Research Research
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"auction-scout"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Fees.Validate(); err != nil {
		return Config{}, fmt.Errorf("fees validate: %w", err)
	}

	return config, nil
}
