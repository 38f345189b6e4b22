package station

import "sync"

// Buffer is the bounded live window of recent readings: two index-aligned
// series, oldest first. A single writer appends; any number of readers take
// snapshots. Both series always have the same length.
type Buffer struct {
	mu          sync.Mutex
	capacity    int
	temperature []float64
	humidity    []float64
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 50
	}

	return &Buffer{
		capacity:    capacity,
		temperature: make([]float64, 0, capacity),
		humidity:    make([]float64, 0, capacity),
	}
}

// Append adds a reading and evicts from the front once the window exceeds
// capacity. It never fails and never blocks beyond the internal lock.
func (buffer *Buffer) Append(reading Reading) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	buffer.temperature = append(buffer.temperature, reading.Temperature)
	buffer.humidity = append(buffer.humidity, reading.Humidity)

	if len(buffer.temperature) > buffer.capacity {
		buffer.temperature = append([]float64(nil), buffer.temperature[len(buffer.temperature)-buffer.capacity:]...)
		buffer.humidity = append([]float64(nil), buffer.humidity[len(buffer.humidity)-buffer.capacity:]...)
	}
}

// Snapshot returns a copy of both series taken at a single instant. The
// copy never aliases internal state.
func (buffer *Buffer) Snapshot() Series {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()

	temperature := make([]float64, len(buffer.temperature))
	copy(temperature, buffer.temperature)

	humidity := make([]float64, len(buffer.humidity))
	copy(humidity, buffer.humidity)

	return Series{Temperature: temperature, Humidity: humidity}
}

func (buffer *Buffer) Len() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return len(buffer.temperature)
}
