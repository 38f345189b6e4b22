// Package config loads the explicit service configuration from the
// environment. Required values fail fast at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port              string
	DatabaseURL       string
	PGMaxConns        int
	MQTTBroker        string
	MQTTPort          int
	MQTTClientID      string
	Topic             string
	LightSwitchTopic  string
	BufferCapacity    int
	HistoryLimit      int
	BasicAuthUsername string
	BasicAuthPassword string
	APIRequestLimit   int
}

func Load() (*Config, error) {
	config := &Config{
		Port:              envOrDefault("PORT", "8080"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		PGMaxConns:        intOrDefault("PG_MAX_CONNS", 10),
		MQTTBroker:        strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTPort:          intOrDefault("MQTT_PORT", 1883),
		MQTTClientID:      envOrDefault("MQTT_CLIENT_ID", "climate-station"),
		Topic:             envOrDefault("MQTT_TOPIC", "iot"),
		LightSwitchTopic:  envOrDefault("LIGHT_SWITCH_TOPIC", "light_switch"),
		BufferCapacity:    intOrDefault("BUFFER_CAPACITY", 50),
		HistoryLimit:      intOrDefault("HISTORY_LIMIT", 30),
		BasicAuthUsername: strings.TrimSpace(os.Getenv("BASIC_AUTH_USERNAME")),
		BasicAuthPassword: strings.TrimSpace(os.Getenv("BASIC_AUTH_PASSWORD")),
		APIRequestLimit:   intOrDefault("API_REQUEST_LIMIT", 60),
	}

	if config.MQTTBroker == "" {
		return nil, fmt.Errorf("MQTT_BROKER is required")
	}
	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.BasicAuthUsername == "" || config.BasicAuthPassword == "" {
		return nil, fmt.Errorf("BASIC_AUTH_USERNAME and BASIC_AUTH_PASSWORD are required")
	}
	if config.BufferCapacity < 1 {
		config.BufferCapacity = 50
	}
	if config.HistoryLimit < 1 {
		config.HistoryLimit = 30
	}

	return config, nil
}

// BrokerURL is the paho-style address of the MQTT broker.
func (config *Config) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", config.MQTTBroker, config.MQTTPort)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	parsedValue, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsedValue
}
