package station

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Reading is one accepted temperature/humidity sample. ReceivedAt is
// assigned at ingest and never changes afterwards.
type Reading struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	ReceivedAt  time.Time `json:"received_at"`
}

// StoredReading is a persisted row. RecordedAt is assigned by the store
// at write time.
type StoredReading struct {
	ID          int64     `json:"id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	RecordedAt  time.Time `json:"timestamp"`
}

// Series carries index-aligned temperature and humidity values, the wire
// shape pushed to viewers.
type Series struct {
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
}

// DecodeSample parses an inbound sensor payload. Missing temperature or
// humidity defaults to zero; values that are present but not numeric make
// the whole payload invalid. Unrecognized fields are ignored.
func DecodeSample(raw []byte) (temperature float64, humidity float64, err error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return 0, 0, fmt.Errorf("decode payload: %w", err)
	}

	temperature, err = numericField(payload, "temperature")
	if err != nil {
		return 0, 0, err
	}

	humidity, err = numericField(payload, "humidity")
	if err != nil {
		return 0, 0, err
	}

	return temperature, humidity, nil
}

func numericField(payload map[string]any, key string) (float64, error) {
	value, ok := payload[key]
	if !ok {
		return 0, nil
	}

	parsed, err := parseFloat(value)
	if err != nil {
		return 0, fmt.Errorf("invalid field %s: %w", key, err)
	}
	return parsed, nil
}

func parseFloat(value any) (float64, error) {
	switch typed := value.(type) {
	case json.Number:
		return typed.Float64()
	case string:
		return strconv.ParseFloat(typed, 64)
	case float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	default:
		return 0, fmt.Errorf("unsupported number type %T", value)
	}
}
