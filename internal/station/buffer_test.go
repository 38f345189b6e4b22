package station

import (
	"sync"
	"testing"
)

func TestBufferTrimsToCapacityOldestFirst(t *testing.T) {
	buffer := NewBuffer(3)

	for i := 0; i < 5; i++ {
		buffer.Append(Reading{Temperature: float64(i), Humidity: float64(i) + 100})
	}

	snapshot := buffer.Snapshot()
	if len(snapshot.Temperature) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snapshot.Temperature))
	}

	for i, want := range []float64{2, 3, 4} {
		if snapshot.Temperature[i] != want {
			t.Fatalf("expected temperature %v at index %d, got %v", want, i, snapshot.Temperature[i])
		}
		if snapshot.Humidity[i] != want+100 {
			t.Fatalf("expected humidity %v at index %d, got %v", want+100, i, snapshot.Humidity[i])
		}
	}
}

func TestBufferKeepsAllEntriesBelowCapacity(t *testing.T) {
	buffer := NewBuffer(10)

	buffer.Append(Reading{Temperature: 20, Humidity: 50})
	buffer.Append(Reading{Temperature: 21, Humidity: 51})

	snapshot := buffer.Snapshot()
	if len(snapshot.Temperature) != 2 || len(snapshot.Humidity) != 2 {
		t.Fatalf(
			"expected 2 entries in both series, got %d and %d",
			len(snapshot.Temperature), len(snapshot.Humidity),
		)
	}
}

func TestBufferSnapshotDoesNotAliasInternalState(t *testing.T) {
	buffer := NewBuffer(5)
	buffer.Append(Reading{Temperature: 20, Humidity: 50})

	snapshot := buffer.Snapshot()
	snapshot.Temperature[0] = 99

	if again := buffer.Snapshot(); again.Temperature[0] != 20 {
		t.Fatalf("expected internal state unchanged, got %v", again.Temperature[0])
	}
}

func TestBufferSnapshotNeverObservesMismatchedSeries(t *testing.T) {
	buffer := NewBuffer(30)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			buffer.Append(Reading{Temperature: float64(i), Humidity: float64(i)})
		}
		close(done)
	}()

	for {
		snapshot := buffer.Snapshot()
		if len(snapshot.Temperature) != len(snapshot.Humidity) {
			t.Fatalf(
				"series length mismatch: %d temperatures, %d humidities",
				len(snapshot.Temperature), len(snapshot.Humidity),
			)
		}

		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
	}
}

func TestBufferDefaultsCapacityWhenInvalid(t *testing.T) {
	buffer := NewBuffer(0)

	for i := 0; i < 60; i++ {
		buffer.Append(Reading{Temperature: float64(i)})
	}

	if buffer.Len() != 50 {
		t.Fatalf("expected default capacity 50, got %d", buffer.Len())
	}
}
