package interfaces

import "context"

// FlushParticipantInterface writes in-memory state into the store right
// before the store is flushed.
type FlushParticipantInterface interface {
	BeforeFlush(ctx context.Context)
}
