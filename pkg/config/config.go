package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// BTW_DATABASE_HOST overrides Database.Host.
const EnvPrefix = "BTW"

type Configuration struct {
	ListenAddr     string
	BaseURL        string
	AllowedOrigins []string
	Log            LogSettings
	Database       Database
	Images         ImageSettings
	Catalog        struct {
		CacheTTL time.Duration
	}
	Events struct {
		MQTT   MQTTSettings
		Broker BrokerSettings
	}
	// Client is used by setupctl to reach a running server.
	Client struct {
		Endpoint string
		Timeout  time.Duration
	}
}

type LogSettings struct {
	Level  string
	Format string
}

type Database struct {
	User     string
	Password string
	Host     string
	DB       string
	SSLMode  string
}

// DSN returns a lib/pq connection URL.
func (d Database) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host,
		Path:   "/" + d.DB,
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type ImageSettings struct {
	Dir          string
	MaxBytes     int64
	PublicPrefix string
}

// MQTTSettings configures the optional setup event publisher. An empty
// Broker disables it.
type MQTTSettings struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
}

// BrokerSettings configures the embedded read-only MQTT broker that setup
// events are served from. An empty Listen disables it. With Username set,
// clients must present those credentials.
type BrokerSettings struct {
	Listen   string
	Topic    string
	Username string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenAddr", ":8080")
	v.SetDefault("BaseURL", "http://localhost:8080")
	v.SetDefault("AllowedOrigins", []string{"*"})
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "text")
	v.SetDefault("Database.Host", "localhost:5432")
	v.SetDefault("Database.DB", "buythatworks")
	v.SetDefault("Database.SSLMode", "disable")
	v.SetDefault("Images.Dir", "data/setup-images")
	v.SetDefault("Images.MaxBytes", 5*1024*1024)
	v.SetDefault("Images.PublicPrefix", "/setup-images/")
	v.SetDefault("Catalog.CacheTTL", "15m")
	v.SetDefault("Events.MQTT.ClientID", "buythatworks")
	v.SetDefault("Events.MQTT.Topic", "buythatworks/setups")
	v.SetDefault("Events.Broker.Topic", "buythatworks/setups")
	v.SetDefault("Client.Endpoint", "http://localhost:8080")
	v.SetDefault("Client.Timeout", "30s")
}

// Load reads the configuration file at path, if any, and applies BTW_
// environment overrides on top of the defaults.
func Load(path string) (Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Configuration{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Configuration{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Configuration
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Configuration{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
