package station

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakePublisher struct {
	published []string
	err       error
}

func (publisher *fakePublisher) PublishCommand(state string) error {
	publisher.published = append(publisher.published, state)
	return publisher.err
}

func TestRelayPublishesOnceAndConfirmsToEveryViewer(t *testing.T) {
	publisher := &fakePublisher{}
	hub := NewHub(zerolog.Nop())
	sender := hub.Attach()
	other := hub.Attach()

	relay := NewRelay(publisher, hub, zerolog.Nop())
	relay.OnCommand("on")

	if len(publisher.published) != 1 || publisher.published[0] != "on" {
		t.Fatalf("expected single publish of \"on\", got %v", publisher.published)
	}

	for _, viewer := range []*Viewer{sender, other} {
		select {
		case event := <-viewer.Send:
			if event.Name != EventLightState {
				t.Fatalf("expected event %q, got %q", EventLightState, event.Name)
			}
			state, ok := event.Data.(LightState)
			if !ok {
				t.Fatalf("expected LightState payload, got %T", event.Data)
			}
			if state.State != "on" {
				t.Fatalf("expected state \"on\", got %q", state.State)
			}
		default:
			t.Fatalf("viewer %s received no confirmation", viewer.ID)
		}
	}
}

func TestRelayDefaultsAbsentStateToOff(t *testing.T) {
	publisher := &fakePublisher{}
	hub := NewHub(zerolog.Nop())

	relay := NewRelay(publisher, hub, zerolog.Nop())
	relay.OnCommand("")

	if len(publisher.published) != 1 || publisher.published[0] != "off" {
		t.Fatalf("expected publish of \"off\", got %v", publisher.published)
	}
}

func TestRelayConfirmsDespitePublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker gone")}
	hub := NewHub(zerolog.Nop())
	viewer := hub.Attach()

	relay := NewRelay(publisher, hub, zerolog.Nop())
	relay.OnCommand("on")

	select {
	case event := <-viewer.Send:
		if event.Name != EventLightState {
			t.Fatalf("expected event %q, got %q", EventLightState, event.Name)
		}
	default:
		t.Fatal("expected confirmation despite publish failure")
	}
}
