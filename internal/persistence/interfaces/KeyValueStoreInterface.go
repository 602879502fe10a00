package interfaces

import "context"

// KeyValueStoreInterface is the durable string key-value capability. Get
// reports found=false for a missing key; err is reserved for storage faults.
type KeyValueStoreInterface interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// DurableStoreInterface is a KeyValueStoreInterface whose state survives restarts.
// Restore loads previously persisted state, Flush forces pending writes to disk.
type DurableStoreInterface interface {
	KeyValueStoreInterface
	Restore() error
	Flush() error
	Close() error
}
