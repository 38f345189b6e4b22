// Package mqttsource adapts the MQTT transport to the ingest pipeline: it
// delivers raw inbound sensor payloads on a channel and republishes viewer
// commands on the outbound switch topic.
package mqttsource

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
	inboundBuffer  = 256
)

type Config struct {
	BrokerURL    string
	ClientID     string
	Topic        string
	CommandTopic string
}

type Source struct {
	config   Config
	client   mqtt.Client
	messages chan []byte
	logger   zerolog.Logger
}

func New(config Config, logger zerolog.Logger) *Source {
	source := &Source{
		config:   config,
		messages: make(chan []byte, inboundBuffer),
		logger:   logger.With().Str("component", "mqtt").Logger(),
	}

	options := mqtt.NewClientOptions()
	options.AddBroker(config.BrokerURL)
	options.SetClientID(config.ClientID)
	options.SetAutoReconnect(true)
	options.SetConnectRetry(true)
	options.SetConnectRetryInterval(2 * time.Second)
	options.SetMaxReconnectInterval(30 * time.Second)

	// Subscribing inside OnConnect restores the subscription after every
	// reconnect without operator intervention.
	options.OnConnect = func(client mqtt.Client) {
		source.logger.Info().Str("broker", config.BrokerURL).Str("topic", config.Topic).
			Msg("connected to broker, subscribing")
		token := client.Subscribe(config.Topic, 0, source.onMessage)
		if !token.WaitTimeout(connectTimeout) || token.Error() != nil {
			source.logger.Error().Err(token.Error()).Str("topic", config.Topic).
				Msg("failed to subscribe")
		}
	}

	options.OnConnectionLost = func(_ mqtt.Client, err error) {
		source.logger.Warn().Err(err).Msg("broker connection lost, auto-reconnect pending")
	}

	source.client = mqtt.NewClient(options)
	return source
}

// Connect blocks until the initial broker connection is up or the timeout
// elapses. Later disconnects are handled by the client's auto-reconnect.
func (source *Source) Connect(ctx context.Context) error {
	token := source.client.Connect()

	done := make(chan struct{})
	go func() {
		token.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	case <-time.After(connectTimeout):
		return fmt.Errorf("mqtt connect timeout after %s", connectTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (source *Source) onMessage(_ mqtt.Client, message mqtt.Message) {
	payload := make([]byte, len(message.Payload()))
	copy(payload, message.Payload())

	// Never block the paho delivery goroutine; the window silently drops
	// instead of applying backpressure to the producer.
	select {
	case source.messages <- payload:
	default:
		source.logger.Warn().Str("topic", message.Topic()).Msg("inbound queue full, dropping payload")
	}
}

// Messages is the stream of raw inbound payloads consumed by the pipeline.
func (source *Source) Messages() <-chan []byte {
	return source.messages
}

// PublishCommand sends the bare state token on the switch topic.
func (source *Source) PublishCommand(state string) error {
	token := source.client.Publish(source.config.CommandTopic, 0, false, state)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout after %s", publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish command: %w", err)
	}
	return nil
}

func (source *Source) Close() {
	if source.client.IsConnected() {
		source.client.Disconnect(250)
		source.logger.Info().Msg("disconnected from broker")
	}
}
