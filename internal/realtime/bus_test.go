package realtime

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
)

func newTestBus() *Bus {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewBus(log)
}

func TestPublishDeliversInFIFOOrder(t *testing.T) {
	bus := newTestBus()

	var got []string
	bus.Subscribe("p1", func(event model.Event) {
		got = append(got, event.Payload["title"].(string))
	})

	for _, title := range []string{"first", "second", "third"} {
		bus.Publish("p1", model.EventCardAdd, map[string]any{"title": title})
	}

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPublishIsScopedToProjectChannel(t *testing.T) {
	bus := newTestBus()

	var p1Count, p2Count int
	bus.Subscribe("p1", func(model.Event) { p1Count++ })
	bus.Subscribe("p2", func(model.Event) { p2Count++ })

	bus.Publish("p1", model.EventCardUpdate, nil)

	if p1Count != 1 {
		t.Errorf("expected 1 delivery on p1, got %d", p1Count)
	}
	if p2Count != 0 {
		t.Errorf("expected 0 deliveries on p2, got %d", p2Count)
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	bus := newTestBus()

	bus.Publish("p1", model.EventCardAdd, map[string]any{"title": "early"})

	var count int
	bus.Subscribe("p1", func(model.Event) { count++ })

	bus.Publish("p1", model.EventCardAdd, map[string]any{"title": "late"})

	if count != 1 {
		t.Errorf("expected only the late event, got %d deliveries", count)
	}
}

func TestUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	bus := newTestBus()

	var count int
	unsubscribe := bus.Subscribe("p1", func(model.Event) { count++ })

	bus.Publish("p1", model.EventCardUpdate, nil)

	unsubscribe()
	unsubscribe() // second call must be a harmless no-op

	bus.Publish("p1", model.EventCardUpdate, nil)

	if count != 1 {
		t.Errorf("expected 1 delivery before unsubscribe, got %d", count)
	}
	if n := bus.SubscriberCount("p1"); n != 0 {
		t.Errorf("expected 0 remaining subscribers, got %d", n)
	}
}

func TestUnsubscribeRemovesOnlyItsOwnRegistration(t *testing.T) {
	bus := newTestBus()

	var aCount, bCount int
	unsubA := bus.Subscribe("p1", func(model.Event) { aCount++ })
	bus.Subscribe("p1", func(model.Event) { bCount++ })

	unsubA()
	bus.Publish("p1", model.EventCardUpdate, nil)

	if aCount != 0 {
		t.Errorf("unsubscribed handler still invoked %d times", aCount)
	}
	if bCount != 1 {
		t.Errorf("expected 1 delivery to remaining handler, got %d", bCount)
	}
}

func TestPanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := newTestBus()

	var delivered int
	bus.Subscribe("p1", func(model.Event) {
		panic("misbehaving subscriber")
	})
	bus.Subscribe("p1", func(model.Event) { delivered++ })

	bus.Publish("p1", model.EventDocumentUpdate, map[string]any{"userName": "Bob"})

	if delivered != 1 {
		t.Errorf("expected delivery to survive earlier panic, got %d", delivered)
	}
}

func TestPublishSetsEventFields(t *testing.T) {
	bus := newTestBus()

	var got model.Event
	bus.Subscribe("p1", func(event model.Event) { got = event })

	before := model.NowMillis()
	bus.Publish("p1", model.EventCardMove, map[string]any{"taskId": "card-1"})
	after := model.NowMillis()

	if got.ProjectID != "p1" {
		t.Errorf("expected project p1, got %q", got.ProjectID)
	}
	if got.Type != model.EventCardMove {
		t.Errorf("expected %q, got %q", model.EventCardMove, got.Type)
	}
	if got.Payload["taskId"] != "card-1" {
		t.Errorf("expected taskId card-1, got %v", got.Payload["taskId"])
	}
	if got.Timestamp < before || got.Timestamp > after {
		t.Errorf("timestamp %d outside publish window [%d, %d]", got.Timestamp, before, after)
	}
}
