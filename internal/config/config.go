package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	OrderStore       HTTPClientConfig        `env:",prefix=ORDERSTORE_"`
	Board            BoardConfig             `env:",prefix=BOARD_"`
}

type HTTPClientConfig struct {
	Scheme    string        `env:"SCHEME,default=http"`
	Host      string        `env:"HOST,default=127.0.0.1"`
	Port      uint16        `env:"PORT,default=9000"`
	Timeout   time.Duration `env:"TIMEOUT,default=30s"`
	RateLimit struct {
		Burst int     `env:"BURST,default=5"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

func (c HTTPClientConfig) ADDR() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

type BoardConfig struct {
	PollInterval   time.Duration `env:"POLL_INTERVAL,default=5s"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE,default=300ms"`
	Language       string        `env:"LANGUAGE,default=ko"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path        string        `env:"PATH,default=./data/counter.db"`
	ConnTimeout time.Duration `env:"CONN_TIMEOUT,default=10s"`
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT,default=5s"`
}
