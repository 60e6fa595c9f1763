package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Session struct {
	TTLHours int
}

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type Cloudinary struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

type Webhook struct {
	AgentRegisteredURL string `mapstructure:"agent_registered_url"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Apex domains whose subdomains are also allowed, e.g. "metraai.xyz"
	// admits "https://anything.metraai.xyz".
	AllowedDomains []string `mapstructure:"allowed_domains"`
}

type Frontend struct {
	// BaseURL overrides Origin/Referer/Host detection when set.
	BaseURL string `mapstructure:"base_url"`
}

type Config struct {
	App        App
	Log        Log
	DB         DB
	Session    Session
	Redis      Redis `mapstructure:"redis"`
	Cloudinary Cloudinary
	Webhook    Webhook
	CORS       CORS `mapstructure:"cors"`
	Frontend   Frontend
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// Load reads the YAML config file and applies APP_-prefixed environment
// overrides. A missing file is fine; defaults plus env carry a local run.
func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			log.Fatalf("read config: %v", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "metra-backend")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8000)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("session.ttlhours", 8)
	v.SetDefault("redis.ttl_seconds", 300)
	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:8080",
		"http://127.0.0.1:8080",
		"http://localhost:3000",
		"https://metraai.xyz",
		"https://www.metraai.xyz",
		"https://metraap.com",
		"https://www.metraap.com",
	})
	v.SetDefault("cors.allowed_domains", []string{"metraai.xyz", "metraap.com"})
}
