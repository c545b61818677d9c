package usersink

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-parish/pkg/activity"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

var ErrNoSink = errors.New("usersink: sink is nil")

// Hook forwards activity events to a go-users activity sink.
type Hook struct {
	Sink interfaces.ActivitySink
}

var _ activity.Hook = Hook{}

// Notify maps the event into an ActivityRecord. Events without a verb are
// dropped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if h.Sink == nil {
		return ErrNoSink
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record converts an event. Ids that are not UUIDs become uuid.Nil.
func Record(event activity.Event) interfaces.ActivityRecord {
	data := make(map[string]any, len(event.Metadata)+2)
	maps.Copy(data, event.Metadata)
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string(nil), event.Recipients...)
	}
	return interfaces.ActivityRecord{
		UserID:     parseID(event.UserID),
		ActorID:    parseID(event.ActorID),
		TenantID:   parseID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

func parseID(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}
