package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record used for the admin audit trail.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink stores activity records emitted by admin mutations.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
