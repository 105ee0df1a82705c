package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-params/pkg/activity"
	"github.com/goliatone/go-params/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsStoredEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.StoredEvent(nil, "ui.theme", "dark")
	event.ActorID = actorID.String()
	event.TenantID = tenantID.String()
	event.UserID = "not-a-uuid"
	event.Channel = "params"
	event.Metadata = map[string]any{"origin": "cli"}
	event.OccurredAt = now

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.TenantID != tenantID {
		t.Fatalf("unexpected identity fields: %+v", record)
	}
	if record.UserID != uuid.Nil {
		t.Fatalf("expected invalid user id to map to uuid.Nil, got %s", record.UserID)
	}
	if record.Verb != activity.VerbStored || record.ObjectType != usersink.ObjectType || record.ObjectID != "ui.theme" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "params" || !record.OccurredAt.Equal(now) {
		t.Fatalf("unexpected channel/timestamp: %+v", record)
	}
	if record.Data["value"] != "dark" || record.Data["origin"] != "cli" {
		t.Fatalf("expected value and metadata in data, got %v", record.Data)
	}
}

func TestHookNotifyMapsResetEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.ResetEvent(nil, "ui.theme")); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	if sink.records[0].Data["reset"] != true {
		t.Fatalf("expected reset flag, got %v", sink.records[0].Data)
	}
	if _, ok := sink.records[0].Data["value"]; ok {
		t.Fatalf("reset record should not carry a value")
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookNotifySkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})
	_ = hook.Notify(context.Background(), activity.Event{Verb: activity.VerbStored})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.LoadedEvent(nil, "k", 1, true))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestHookWithoutSinkIsNoop(t *testing.T) {
	if err := (usersink.Hook{}).Notify(context.Background(), activity.StoredEvent(nil, "k", 1)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
