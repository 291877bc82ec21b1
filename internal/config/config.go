package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	TopicOut string   `mapstructure:"topic_out"`
	TopicIn  string   `mapstructure:"topic_in"`
	GroupID  string   `mapstructure:"group_id"`
}

type NatsConfig struct {
	URL string `mapstructure:"url"`
}

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

type Config struct {
	App      AppConfig     `mapstructure:"app"`
	Mongo    MongoConfig   `mapstructure:"mongo"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Kafka    KafkaConfig   `mapstructure:"kafka"`
	Nats     NatsConfig    `mapstructure:"nats"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	LogLevel string        `mapstructure:"log_level"`
	// derived
	CacheTTL time.Duration
}

// Load reads the config file if present and applies env overrides and
// defaults. Redis, Kafka and NATS are optional: empty settings disable them.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "chatapp"
	}
	if c.Kafka.TopicOut == "" {
		c.Kafka.TopicOut = "chat.message.created"
	}
	if c.Kafka.TopicIn == "" {
		c.Kafka.TopicIn = "chat.message.relay"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "chat-app-server"
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = 300
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9100
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.CacheTTL = time.Duration(c.Redis.TTLSeconds) * time.Second
	return &c, nil
}
