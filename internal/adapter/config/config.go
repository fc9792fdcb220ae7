package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database  *Database
	HTTP      *HTTP
	Processor *Processor
	RateLimit *RateLimit
	Dispatch  *Dispatch
	App       *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Processor struct {
	HostString string `env:"PAYMENT_PROCESSOR_ADDRESS"`
}

type RateLimit struct {
	Capacity int           `env:"RATE_LIMIT_CAPACITY"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW"`
}

type Dispatch struct {
	Workers       int `env:"DISPATCH_WORKERS"`
	QueueCapacity int `env:"DISPATCH_QUEUE_CAPACITY"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var processor Processor
	var rateLimit RateLimit
	var dispatch Dispatch
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&processor.HostString, "r", "", "Payment processor address")
	flag.IntVar(&rateLimit.Capacity, "c", 64, "Rate limit: admissions per window")
	flag.DurationVar(&rateLimit.Window, "w", 6*time.Second, "Rate limit: window duration")
	flag.IntVar(&dispatch.Workers, "n", 16, "Dispatch pool: worker count")
	flag.IntVar(&dispatch.QueueCapacity, "q", 8000, "Dispatch pool: queue capacity")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&processor)
	if err != nil {
		return nil, fmt.Errorf("error parsing processor config: %w", err)
	}
	err = env.Parse(&rateLimit)
	if err != nil {
		return nil, fmt.Errorf("error parsing rate limit config: %w", err)
	}
	err = env.Parse(&dispatch)
	if err != nil {
		return nil, fmt.Errorf("error parsing dispatch config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}

	config := Config{
		Database:  &db,
		HTTP:      &http,
		Processor: &processor,
		RateLimit: &rateLimit,
		Dispatch:  &dispatch,
		App:       &app,
	}

	return &config, nil
}
