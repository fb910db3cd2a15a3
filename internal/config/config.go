// Package config loads the analytics consumer configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Consumer holds the analytics consumer configuration.
type Consumer struct {
	RedisAddr     string `default:"localhost:6379" envconfig:"REDIS_ADDR"`
	ConsumerGroup string `default:"analytics"      envconfig:"CONSUMER_GROUP"`
	LogFormat     string `default:"console"        envconfig:"LOG_FORMAT"`
}

// Validate validates the consumer configuration.
func (c *Consumer) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis address cannot be empty")
	}

	if c.ConsumerGroup == "" {
		return fmt.Errorf("consumer group cannot be empty")
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be one of: console, json)", c.LogFormat)
	}

	return nil
}

// LoadConsumer loads the consumer configuration from environment variables.
func LoadConsumer() (*Consumer, error) {
	cfg := &Consumer{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load consumer config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid consumer config: %w", err)
	}

	return cfg, nil
}
