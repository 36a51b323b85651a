package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const defaultPrefix = "ORDER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"30s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"15s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
	StaticDir         string        `default:"" envconfig:"STATIC_DIR"`
	CORSOrigins       []string      `envconfig:"CORS_ORIGINS"`
	RefreshRPS        float64       `default:"0.2" envconfig:"REFRESH_RPS"`
	RefreshBurst      int           `default:"2" envconfig:"REFRESH_BURST"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"orderfeed" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Identity — пользователь, для которого работает конвейер.
type Identity struct {
	UserID      string `envconfig:"USER_ID"`
	ServiceArea string `envconfig:"SERVICE_AREA"`
}

// API — внешнее HTTP API заказов.
type API struct {
	BaseURL string        `default:"http://order-api:8081" envconfig:"BASE_URL"`
	Timeout time.Duration `default:"10s" envconfig:"TIMEOUT"`
}

type Bus struct {
	Driver         string        `default:"nats" envconfig:"DRIVER"` // nats|kafka
	ReconnectDelay time.Duration `default:"5s" envconfig:"RECONNECT_DELAY"`
}

type NATS struct {
	URL            string        `default:"nats://nats:4222" envconfig:"URL"`
	Name           string        `default:"orderfeed" envconfig:"NAME"`
	ConnectTimeout time.Duration `default:"5s" envconfig:"CONNECT_TIMEOUT"`
}

type Kafka struct {
	Brokers     []string      `default:"kafka:9092" envconfig:"BROKERS"`
	GroupID     string        `default:"orderfeed" envconfig:"GROUP_ID"`
	StartOffset string        `default:"last" envconfig:"START_OFFSET"`
	DialTimeout time.Duration `default:"5s" envconfig:"DIAL_TIMEOUT"`
}

type Cache struct {
	TTL         time.Duration `default:"10m" envconfig:"TTL"`
	PendingTTL  time.Duration `default:"2m" envconfig:"PENDING_TTL"`
	AssignedTTL time.Duration `default:"1m" envconfig:"ASSIGNED_TTL"`
}

type Logger struct {
	IsProd     bool   `default:"false" envconfig:"IS_PROD"`
	File       string `default:"" envconfig:"FILE"`
	MaxSizeMB  int    `default:"100" envconfig:"MAX_SIZE_MB"`
	MaxBackups int    `default:"3" envconfig:"MAX_BACKUPS"`
	MaxAgeDays int    `default:"7" envconfig:"MAX_AGE_DAYS"`
}

type Config struct {
	HTTP     HTTP
	Tracing  Tracing
	Identity Identity
	API      API
	Bus      Bus
	NATS     NATS
	Kafka    Kafka
	Cache    Cache
	Logger   Logger
}

// Load — конфигурация из окружения с префиксом ORDER.
func Load() (Config, error) {
	return LoadWithPrefix(defaultPrefix)
}

// LoadWithPrefix — то же с произвольным префиксом (удобно в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
