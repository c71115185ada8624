package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultQueue = "leads_log"

type Config struct {
	Port       string `validate:"required,numeric"`
	LedgerPath string `validate:"required"`

	// senha compartilhada da tela de relatório (comparada literalmente)
	ReportPassword string
	SessionSecret  string
	SessionTTL     time.Duration `validate:"gt=0"`
	SecureCookie   bool

	GoogleAPIKey    string
	GoogleCX        string
	GoogleSearchURL string `validate:"required,url"`
	SerpAPIKey      string
	SerpAPIURL      string        `validate:"required,url"`
	SearchResults   int           `validate:"min=1,max=10"`
	SearchTimeout   time.Duration `validate:"gt=0"`

	ReceitaWSURL    string        `validate:"required,url"`
	RegistryTimeout time.Duration `validate:"gt=0"`

	RabbitURI   string
	RabbitQueue string `validate:"required"`

	MongoURI string
	MongoDB  string `validate:"required"`

	// websocket do cmd/ws exibido na tela de relatório
	FeedURL string `validate:"omitempty,url"`

	LogLevel          slog.Level
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // .env é opcional

	return &Config{
		Port:       getenvAny("8080", "PORT", "API_PORT"),
		LedgerPath: getenv("LEDGER_PATH", "dados_leads.csv"),

		ReportPassword: getenv("REPORT_PASSWORD", ""),
		SessionSecret:  getenv("SESSION_SECRET", ""),
		SessionTTL:     parseDuration("SESSION_TTL", 12*time.Hour),
		SecureCookie:   getenv("SESSION_SECURE", "false") == "true",

		GoogleAPIKey:    getenv("GOOGLE_API_KEY", ""),
		GoogleCX:        getenvAny("", "GOOGLE_CX", "CX"),
		GoogleSearchURL: getenv("GOOGLE_SEARCH_URL", "https://www.googleapis.com/customsearch/v1"),
		SerpAPIKey:      getenv("SERPAPI_KEY", ""),
		SerpAPIURL:      getenv("SERPAPI_URL", "https://serpapi.com/search"),
		SearchResults:   parseInt("SEARCH_RESULTS", 3),
		SearchTimeout:   parseDuration("SEARCH_TIMEOUT", 5*time.Second),

		ReceitaWSURL:    getenv("RECEITAWS_URL", "https://www.receitaws.com.br"),
		RegistryTimeout: parseDuration("REGISTRY_TIMEOUT", 5*time.Second),

		RabbitURI:   getenvAny("", "RABBIT_URI", "RABBITMQ_URL"),
		RabbitQueue: getenvAny(defaultQueue, "RABBIT_QUEUE", "RABBITMQ_QUEUE"),

		MongoURI: getenv("MONGO_URI", ""),
		MongoDB:  getenv("MONGO_DB", "leadsdb"),

		FeedURL: getenv("FEED_URL", ""),

		LogLevel:          parseLevel(getenv("LOG_LEVEL", "info")),
		ReadHeaderTimeout: parseDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checa os campos obrigatórios e faixas numéricas.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
