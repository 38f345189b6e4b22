package config

import "testing"

func setRequired(t *testing.T) {
	t.Setenv("MQTT_BROKER", "broker.local")
	t.Setenv("DATABASE_URL", "postgres://localhost/climate")
	t.Setenv("BASIC_AUTH_USERNAME", "operator")
	t.Setenv("BASIC_AUTH_PASSWORD", "secret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Topic != "iot" {
		t.Fatalf("expected default topic iot, got %q", cfg.Topic)
	}
	if cfg.LightSwitchTopic != "light_switch" {
		t.Fatalf("expected default switch topic light_switch, got %q", cfg.LightSwitchTopic)
	}
	if cfg.BufferCapacity != 50 {
		t.Fatalf("expected default buffer capacity 50, got %d", cfg.BufferCapacity)
	}
	if cfg.HistoryLimit != 30 {
		t.Fatalf("expected default history limit 30, got %d", cfg.HistoryLimit)
	}
	if cfg.BrokerURL() != "tcp://broker.local:1883" {
		t.Fatalf("expected broker url tcp://broker.local:1883, got %q", cfg.BrokerURL())
	}
}

func TestLoadFailsWithoutBroker(t *testing.T) {
	setRequired(t)
	t.Setenv("MQTT_BROKER", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when MQTT_BROKER is missing")
	}
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadFailsWithoutAuthCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("BASIC_AUTH_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when auth credentials are missing")
	}
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("BUFFER_CAPACITY", "plenty")
	t.Setenv("MQTT_PORT", "?")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.BufferCapacity != 50 {
		t.Fatalf("expected fallback buffer capacity 50, got %d", cfg.BufferCapacity)
	}
	if cfg.MQTTPort != 1883 {
		t.Fatalf("expected fallback mqtt port 1883, got %d", cfg.MQTTPort)
	}
}
