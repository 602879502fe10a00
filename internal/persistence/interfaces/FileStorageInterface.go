package interfaces

import "context"

type DownloadResult struct {
	Status int
	URI    string
}

// FileStorageInterface is the on-device file capability used for cached images.
// Download reports the HTTP status in DownloadResult; err is non-nil only for
// transport or filesystem failures.
type FileStorageInterface interface {
	Root() string
	Exists(ctx context.Context, path string) (bool, error)
	Download(ctx context.Context, url, destPath string) (DownloadResult, error)
	Delete(ctx context.Context, path string, idempotent bool) error
}
