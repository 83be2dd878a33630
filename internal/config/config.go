// Package config описывает настройки сервиса и загружает их из YAML‑файла
// с переопределением через переменные окружения.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	FrontendURL             string `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:3000"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	JWTToken                `yaml:"jwttoken"`
	Places                  `yaml:"places"`
	Gemini                  `yaml:"gemini"`
	Stripe                  `yaml:"stripe"`
	RabbitMQ                `yaml:"rabbitmq"`
	Quota                   `yaml:"quota"`
	RateLimit               `yaml:"rate_limit"`
	CORS                    `yaml:"cors"`
	Analytics               `yaml:"analytics"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес означает работу с кэшем в памяти процесса.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Places — доступ к Google Geocoding и Places API.
type Places struct {
	APIKey        string        `yaml:"api_key" env:"GOOGLE_PLACES_API_KEY"`
	BaseURL       string        `yaml:"base_url" env-default:"https://maps.googleapis.com/maps/api"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	GeocodeTTL    time.Duration `yaml:"geocode_ttl" env-default:"24h"`
	DefaultLocale string        `yaml:"default_location" env-default:"Manila, Philippines"`
}

// Gemini — модель для анализа меню и образов.
type Gemini struct {
	APIKey  string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model   string        `yaml:"model" env-default:"gemini-2.5-flash"`
	Timeout time.Duration `yaml:"timeout" env-default:"30s"`
}

// Stripe — платёжный провайдер для премиум‑доступа.
type Stripe struct {
	SecretKey     string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	Currency      string `yaml:"currency" env-default:"php"`
	UnitAmount    int64  `yaml:"unit_amount" env-default:"11900"`
	ProductName   string `yaml:"product_name" env-default:"DestiPicker Unlimited"`
}

// RabbitMQ — брокер для событий решений. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Quota — дневные лимиты бесплатного тарифа.
type Quota struct {
	DailyLimit int `yaml:"daily_limit" env-default:"3"`
}

// RateLimit — ограничение частоты запросов к API.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// CORS — разрешённые источники запросов.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// Analytics — воркер, который считает события решений из брокера.
type Analytics struct {
	MetricsAddress string `yaml:"metrics_address" env:"ANALYTICS_METRICS_ADDRESS" env-default:":9091"`
	Workers        int    `yaml:"workers" env-default:"4"`
}

// MustLoad читает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
// Перед чтением подгружается .env, если он есть.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг из файла path.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	return &cfg, nil
}

// String печатает конфиг без секретов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"Redis: %q\n"+
			"Places: key set %t, timeout %s\n"+
			"Gemini: key set %t, model %s\n"+
			"Stripe: key set %t\n"+
			"RabbitMQ: enabled %t\n"+
			"Quota: %d per day\n",
		c.Env,
		c.AddressHTTP, c.TimeoutHTTP, c.IdleTimeout,
		c.AddressRedis,
		c.Places.APIKey != "", c.Places.Timeout,
		c.Gemini.APIKey != "", c.Model,
		c.SecretKey != "",
		c.URL != "",
		c.DailyLimit,
	)
}
