package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/raffa/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Messenger struct {
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	PageID  string `mapstructure:"page_id"  json:"page_id"`
}

type Order struct {
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window" json:"rate_limit_window"`
	TimeZone        string        `mapstructure:"timezone"          json:"timezone"`
}

type Cart struct {
	TTL time.Duration `mapstructure:"ttl" json:"ttl"`
}

type Catalog struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"        json:"cache_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" json:"refresh_interval"`
}

type Upstream struct {
	MenuURL  string `mapstructure:"menu_url"  json:"menu_url"`
	OrderURL string `mapstructure:"order_url" json:"order_url"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Messenger   `mapstructure:"messenger"   json:"messenger"`
	Order       `mapstructure:"order"       json:"order"`
	Cart        `mapstructure:"cart"        json:"cart"`
	Catalog     `mapstructure:"catalog"     json:"catalog"`
	Upstream    `mapstructure:"upstream"    json:"upstream"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults() {
	viper.SetDefault("application.env", "production")
	viper.SetDefault("application.host", "0.0.0.0")
	viper.SetDefault("application.port", 8080)
	viper.SetDefault("db.migration_path", "file://migrations")
	viper.SetDefault("db.max_connections", 10)
	viper.SetDefault("db.min_connections", 2)
	viper.SetDefault("otel.host", "otel-collector")
	viper.SetDefault("otel.port", 4317)
	viper.SetDefault("messenger.base_url", "https://m.me")
	viper.SetDefault("messenger.page_id", "61574906107219")
	viper.SetDefault("order.rate_limit_window", time.Minute)
	viper.SetDefault("order.timezone", "Asia/Manila")
	viper.SetDefault("cart.ttl", 72*time.Hour)
	viper.SetDefault("catalog.cache_ttl", 5*time.Minute)
	viper.SetDefault("catalog.refresh_interval", time.Minute)
	viper.SetDefault("upstream.menu_url", "http://menu-service:8080/menu")
	viper.SetDefault("upstream.order_url", "http://order-service:8080/orders")
}

func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "config Get").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()
		setDefaults()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		cfg := Config{}
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
