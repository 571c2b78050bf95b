package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const envPrefix = "GOLDSHOP"

type ServerConfig struct {
	Addr           string   `yaml:"addr" envconfig:"ADDR"`
	AllowOrigins   []string `yaml:"allowOrigins" envconfig:"ALLOW_ORIGINS"`
	TrustedProxies []string `yaml:"trustedProxies" envconfig:"TRUSTED_PROXIES"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver" envconfig:"DRIVER"`
	Username string `yaml:"username" envconfig:"USERNAME"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     string `yaml:"port" envconfig:"PORT"`
	Database string `yaml:"database" envconfig:"NAME"`
	SSLMode  string `yaml:"sslMode" envconfig:"SSLMODE"`
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	Database int    `yaml:"database" envconfig:"DB"`
}

type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

type CheckoutConfig struct {
	// Decimal strings so money never passes through float64.
	FlatShipping         string `yaml:"flatShipping" envconfig:"FLAT_SHIPPING"`
	FreeShippingOver     string `yaml:"freeShippingOver" envconfig:"FREE_SHIPPING_OVER"`
	LockTTLSeconds       int    `yaml:"lockTTLSeconds" envconfig:"LOCK_TTL_SECONDS"`
	EnrichConcurrency    int    `yaml:"enrichConcurrency" envconfig:"ENRICH_CONCURRENCY"`
	FinishTimeoutSeconds int    `yaml:"finishTimeoutSeconds" envconfig:"FINISH_TIMEOUT_SECONDS"`
	ReconcileOnStart     bool   `yaml:"reconcileOnStart" envconfig:"RECONCILE_ON_START"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwtSecret" envconfig:"JWT_SECRET"`
	TokenTTLHours int    `yaml:"tokenTTLHours" envconfig:"TOKEN_TTL_HOURS"`
}

type UploadsConfig struct {
	Dir       string `yaml:"dir" envconfig:"DIR"`
	URLPrefix string `yaml:"urlPrefix" envconfig:"URL_PREFIX"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Checkout CheckoutConfig `yaml:"checkout" envconfig:"CHECKOUT"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"AUTH"`
	Uploads  UploadsConfig  `yaml:"uploads" envconfig:"UPLOADS"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":3000",
			AllowOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "127.0.0.1",
			Port:     "3306",
			Database: "goldshop",
			SSLMode:  "disable",
			LogLevel: "warn",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
		Checkout: CheckoutConfig{
			FlatShipping:         "0",
			LockTTLSeconds:       15,
			EnrichConcurrency:    8,
			FinishTimeoutSeconds: 10,
			ReconcileOnStart:     true,
		},
		Auth: AuthConfig{
			TokenTTLHours: 24,
		},
		Uploads: UploadsConfig{
			Dir:       "./uploads",
			URLPrefix: "/uploads",
		},
	}
}

// LoadConfig reads the YAML file over the defaults, then applies .env and
// GOLDSHOP_* environment overrides. A missing file is not an error.
func LoadConfig(filename string) (Config, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return config, err
	}

	_ = godotenv.Load()
	if err := envconfig.Process(envPrefix, &config); err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return errors.New("config: database.driver must be mysql or postgres")
	}
	if _, err := decimal.NewFromString(c.Checkout.FlatShipping); err != nil {
		return errors.New("config: checkout.flatShipping is not a decimal")
	}
	if c.Checkout.FreeShippingOver != "" {
		if _, err := decimal.NewFromString(c.Checkout.FreeShippingOver); err != nil {
			return errors.New("config: checkout.freeShippingOver is not a decimal")
		}
	}
	if c.Checkout.FinishTimeoutSeconds < 0 {
		return errors.New("config: checkout.finishTimeoutSeconds must not be negative")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwtSecret is required")
	}
	return nil
}
