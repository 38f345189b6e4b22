package station

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestHubBroadcastReachesEveryViewer(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	first := hub.Attach()
	second := hub.Attach()

	hub.BroadcastAll(EventUpdate, Series{Temperature: []float64{20}})

	for _, viewer := range []*Viewer{first, second} {
		select {
		case event := <-viewer.Send:
			if event.Name != EventUpdate {
				t.Fatalf("expected event %q, got %q", EventUpdate, event.Name)
			}
		default:
			t.Fatalf("viewer %s received no event", viewer.ID)
		}
	}
}

func TestHubDeliversEventsInOrderPerViewer(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	viewer := hub.Attach()

	hub.BroadcastAll("first", nil)
	hub.BroadcastAll("second", nil)
	hub.BroadcastAll("third", nil)

	for _, want := range []string{"first", "second", "third"} {
		event := <-viewer.Send
		if event.Name != want {
			t.Fatalf("expected event %q, got %q", want, event.Name)
		}
	}
}

func TestHubPrunesSlowViewerWithoutAbortingDelivery(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	slow := hub.Attach()
	healthy := hub.Attach()

	// Fill the slow viewer's buffer without draining it.
	for i := 0; i < viewerSendBuffer; i++ {
		hub.SendTo(slow, "fill", nil)
	}

	hub.BroadcastAll(EventUpdate, nil)

	if hub.Count() != 1 {
		t.Fatalf("expected slow viewer pruned, have %d viewers", hub.Count())
	}

	select {
	case event := <-healthy.Send:
		if event.Name != EventUpdate {
			t.Fatalf("expected event %q, got %q", EventUpdate, event.Name)
		}
	default:
		t.Fatal("healthy viewer received no event")
	}
}

func TestHubSendToDetachedViewerReportsFailure(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	viewer := hub.Attach()
	hub.Detach(viewer)

	if hub.SendTo(viewer, EventUpdate, nil) {
		t.Fatal("expected send to detached viewer to fail")
	}
}

func TestHubDetachIsIdempotent(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	viewer := hub.Attach()

	hub.Detach(viewer)
	hub.Detach(viewer)

	if hub.Count() != 0 {
		t.Fatalf("expected no viewers, got %d", hub.Count())
	}
}
