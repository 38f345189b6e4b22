package station

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const storeWriteTimeout = 5 * time.Second

// Event names pushed to viewers.
const (
	EventUpdate     = "update_data"
	EventHistorical = "historical_data"
	EventLightState = "light_state"
)

// Pipeline is the single hot path: it consumes raw inbound payloads one at
// a time, decodes them, appends to the live window, persists best-effort,
// and broadcasts the fresh window. It is the only writer to the buffer.
type Pipeline struct {
	buffer *Buffer
	store  Store
	hub    *Hub
	logger zerolog.Logger
}

func NewPipeline(buffer *Buffer, store Store, hub *Hub, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		buffer: buffer,
		store:  store,
		hub:    hub,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run processes messages until the channel closes or the context is
// canceled. Processing is strictly sequential.
func (pipeline *Pipeline) Run(ctx context.Context, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}
			pipeline.process(ctx, payload)
		}
	}
}

func (pipeline *Pipeline) process(ctx context.Context, payload []byte) {
	temperature, humidity, err := DecodeSample(payload)
	if err != nil {
		decodeFailures.Inc()
		pipeline.logger.Error().Err(err).Msg("dropping undecodable payload")
		return
	}

	reading := Reading{
		Temperature: temperature,
		Humidity:    humidity,
		ReceivedAt:  time.Now(),
	}

	pipeline.buffer.Append(reading)
	readingsIngested.Inc()

	// Persistence failure never blocks the broadcast path.
	writeCtx, cancel := context.WithTimeout(ctx, storeWriteTimeout)
	if err := pipeline.store.Add(writeCtx, reading); err != nil {
		storeWriteFailures.Inc()
		pipeline.logger.Error().Err(err).Msg("failed to persist reading")
	}
	cancel()

	pipeline.hub.BroadcastAll(EventUpdate, pipeline.buffer.Snapshot())
	pipeline.logger.Debug().
		Float64("temperature", reading.Temperature).
		Float64("humidity", reading.Humidity).
		Int("window", pipeline.buffer.Len()).
		Msg("reading ingested")
}
