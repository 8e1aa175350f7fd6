package activity

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/project-hub/internal/model"
	"github.com/nhle/project-hub/internal/realtime"
)

func newTestFeed(t *testing.T, bus *realtime.Bus, projectID string) *Feed {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	f := NewFeed(bus, projectID, log)
	t.Cleanup(f.Close)
	return f
}

func newTestBus() *realtime.Bus {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return realtime.NewBus(log)
}

func TestFormatEventTable(t *testing.T) {
	cases := []struct {
		name    string
		event   model.Event
		want    string
	}{
		{
			name:  "card move",
			event: model.Event{Type: model.EventCardMove, Payload: map[string]any{"taskId": "c1"}},
			want:  `Card "c1" was moved`,
		},
		{
			name:  "card move missing task id",
			event: model.Event{Type: model.EventCardMove, Payload: map[string]any{}},
			want:  `Card "unknown" was moved`,
		},
		{
			name:  "card add",
			event: model.Event{Type: model.EventCardAdd, Payload: map[string]any{"title": "Fix bug"}},
			want:  `New card "Fix bug" was added`,
		},
		{
			name:  "card update",
			event: model.Event{Type: model.EventCardUpdate},
			want:  "Card was updated",
		},
		{
			name:  "board add",
			event: model.Event{Type: model.EventBoardAdd, Payload: map[string]any{"title": "Done"}},
			want:  `New board "Done" was created`,
		},
		{
			name:  "document update",
			event: model.Event{Type: model.EventDocumentUpdate, Payload: map[string]any{"userName": "Bob"}},
			want:  "Document was updated by Bob",
		},
		{
			name:  "document update nil payload",
			event: model.Event{Type: model.EventDocumentUpdate},
			want:  "Document was updated by Anonymous",
		},
		{
			name:  "activity log",
			event: model.Event{Type: model.EventActivityLog, Payload: map[string]any{"message": "Project shared with Bob"}},
			want:  "Project shared with Bob",
		},
		{
			name:  "unknown type",
			event: model.Event{Type: "presence:join"},
			want:  "Event: presence:join",
		},
		{
			name:  "non-string payload value",
			event: model.Event{Type: model.EventCardMove, Payload: map[string]any{"taskId": 42}},
			want:  `Card "42" was moved`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatEvent(tc.event); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFeedRecordsNewestFirst(t *testing.T) {
	bus := newTestBus()
	feed := newTestFeed(t, bus, "p1")

	bus.Publish("p1", model.EventCardAdd, map[string]any{"title": "first"})
	bus.Publish("p1", model.EventCardAdd, map[string]any{"title": "second"})

	entries := feed.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].DisplayText != `New card "second" was added` {
		t.Errorf("expected newest entry first, got %q", entries[0].DisplayText)
	}
}

func TestFeedRingNeverExceedsFifty(t *testing.T) {
	bus := newTestBus()
	feed := newTestFeed(t, bus, "p1")

	for i := 0; i < 60; i++ {
		bus.Publish("p1", model.EventCardAdd, map[string]any{
			"title": fmt.Sprintf("card-%d", i),
		})
	}

	entries := feed.Entries()
	if len(entries) != 50 {
		t.Fatalf("expected exactly 50 entries, got %d", len(entries))
	}
	// Newest first: card-59 at the head, card-10 at the tail.
	if entries[0].DisplayText != `New card "card-59" was added` {
		t.Errorf("unexpected head entry: %q", entries[0].DisplayText)
	}
	if entries[49].DisplayText != `New card "card-10" was added` {
		t.Errorf("unexpected tail entry: %q", entries[49].DisplayText)
	}
}

func TestFeedIsScopedToItsProject(t *testing.T) {
	bus := newTestBus()
	p1Feed := newTestFeed(t, bus, "p1")
	p2Feed := newTestFeed(t, bus, "p2")

	bus.Publish("p1", model.EventDocumentUpdate, map[string]any{"userName": "Bob"})

	p1Entries := p1Feed.Entries()
	if len(p1Entries) != 1 {
		t.Fatalf("expected 1 entry on p1 feed, got %d", len(p1Entries))
	}
	if p1Entries[0].DisplayText != "Document was updated by Bob" {
		t.Errorf("unexpected display text: %q", p1Entries[0].DisplayText)
	}
	if len(p2Feed.Entries()) != 0 {
		t.Errorf("expected p2 feed to receive nothing")
	}
}

func TestCloseStopsRecordingAndIsIdempotent(t *testing.T) {
	bus := newTestBus()
	feed := newTestFeed(t, bus, "p1")

	bus.Publish("p1", model.EventCardUpdate, nil)
	feed.Close()
	feed.Close() // second close must be harmless
	bus.Publish("p1", model.EventCardUpdate, nil)

	if len(feed.Entries()) != 1 {
		t.Errorf("expected no entries after close, got %d", len(feed.Entries()))
	}
	if bus.SubscriberCount("p1") != 0 {
		t.Errorf("expected subscription released")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
	}

	for _, tc := range cases {
		ts := now.Add(-tc.ago).UnixMilli()
		if got := RelativeTime(ts, now); got != tc.want {
			t.Errorf("RelativeTime(-%v): expected %q, got %q", tc.ago, tc.want, got)
		}
	}

	// Older than a day falls back to an absolute local time.
	old := now.Add(-48 * time.Hour).UnixMilli()
	if got := RelativeTime(old, now); got == "Just now" || got == "" {
		t.Errorf("expected absolute format for old timestamps, got %q", got)
	}
}
