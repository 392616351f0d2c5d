package main

import (
	"errors"
	"flag"
	"net/http"
	"time"

	"ligmir-backend/lib/configutil"
	"ligmir-backend/lib/dice"
	"ligmir-backend/lib/serviceutil"
	"ligmir-backend/lib/sqliteutil"
	"ligmir-backend/services/charsheet"
	"ligmir-backend/services/prefstore"
	"ligmir-backend/services/prefstore/db"
	"ligmir-backend/services/roller"
	"ligmir-backend/services/telegram"
)

type HttpConfig struct {
	Port int `json:"port"`
}

type BrowserConfig struct {
	Url            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type StoreConfig struct {
	Database string `json:"database"`
}

type TelegramConfig struct {
	Handle       string `json:"handle"`
	DefaultSkill string `json:"default_skill"`
	// ApiUrl overrides the bot API host, leave empty in production
	ApiUrl string `json:"api_url"`
}

type PoolConfig struct {
	Workers int `json:"workers"`
	Queue   int `json:"queue"`
}

type Config struct {
	Http             HttpConfig     `json:"http"`
	Browser          BrowserConfig  `json:"browser"`
	Store            StoreConfig    `json:"store"`
	Telegram         TelegramConfig `json:"telegram"`
	Pool             PoolConfig     `json:"pool"`
	DefaultCharacter int64          `json:"default_character"`
}

func (c *Config) validate() error {
	if c.Browser.Url == "" {
		return errors.New("browser.url is required")
	}
	if c.Browser.TimeoutSeconds <= 0 {
		return errors.New("browser.timeout_seconds is required")
	}
	if c.Store.Database == "" {
		return errors.New("store.database is required")
	}
	if c.Telegram.Handle == "" {
		return errors.New("telegram.handle is required")
	}
	if c.Http.Port == 0 {
		c.Http.Port = 8000
	}
	if c.Telegram.DefaultSkill == "" {
		c.Telegram.DefaultSkill = "Perception"
	}
	if c.Pool.Workers == 0 {
		c.Pool.Workers = 4
	}
	if c.Pool.Queue == 0 {
		c.Pool.Queue = 64
	}
	if c.DefaultCharacter == 0 {
		c.DefaultCharacter = 27570282
	}
	return nil
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	err = cfg.validate()
	if err != nil {
		serviceutil.Fatal("validate config", err)
	}

	database, err := sqliteutil.OpenDB(db.Schema, cfg.Store.Database)
	if err != nil {
		serviceutil.Fatal("init preference store", err)
	}

	service := roller.NewService(
		charsheet.Extractor{
			AllocatorURL: cfg.Browser.Url,
			Timeout:      time.Duration(cfg.Browser.TimeoutSeconds) * time.Second,
		},
		prefstore.NewStore(database),
		telegram.NewClient(cfg.Telegram.ApiUrl),
		telegram.NewInterpreter(
			cfg.Telegram.Handle,
			cfg.Telegram.DefaultSkill,
			charsheet.NewRefPatterns(),
		),
		dice.NewRoller(),
		charsheet.Ref{ID: cfg.DefaultCharacter},
	)

	pool := roller.NewPool(cfg.Pool.Workers, cfg.Pool.Queue)
	pool.Start(ctx)

	mux := http.NewServeMux()
	roller.NewWebhook(service, pool).Register(mux)

	go serviceutil.StartHttpServer(cfg.Http.Port, mux)
	<-ctx.Done()
}
