package station

import (
	"github.com/rs/zerolog"
)

// CommandPublisher republishes a viewer's switch command to the device.
type CommandPublisher interface {
	PublishCommand(state string) error
}

// LightState is the confirmation payload broadcast after a command.
type LightState struct {
	State string `json:"state"`
}

// Relay forwards viewer switch commands to the device and confirms the new
// state to every viewer, the sender included. Publish failures are logged
// only; the confirmation goes out regardless.
type Relay struct {
	publisher CommandPublisher
	hub       *Hub
	logger    zerolog.Logger
}

func NewRelay(publisher CommandPublisher, hub *Hub, logger zerolog.Logger) *Relay {
	return &Relay{
		publisher: publisher,
		hub:       hub,
		logger:    logger.With().Str("component", "relay").Logger(),
	}
}

func (relay *Relay) OnCommand(state string) {
	if state == "" {
		state = "off"
	}

	if err := relay.publisher.PublishCommand(state); err != nil {
		commandPublishFailures.Inc()
		relay.logger.Error().Err(err).Str("state", state).Msg("failed to publish switch command")
	}

	relay.hub.BroadcastAll(EventLightState, LightState{State: state})
}
