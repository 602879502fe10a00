package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	"vivafit/internal/structures"
)

// BlobStorage is the file capability for downloaded images. All paths it
// touches must live under its root directory.
type BlobStorage struct {
	root       string
	httpClient *http.Client
	logger     providers.Logger
}

func NewBlobStorage(conf *structures.Config, logger providers.Logger) (interfaces.FileStorageInterface, error) {
	root, err := filepath.Abs(conf.ExerciseCache.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving cache dir %s: %w", conf.ExerciseCache.Dir, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", root, err)
	}

	timeout := conf.ExerciseAPI.Timeout
	if timeout <= 0 {
		timeout = structures.DefaultAPITimeout
	}

	return &BlobStorage{
		root:       root,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (b *BlobStorage) Root() string {
	return b.root
}

func (b *BlobStorage) Exists(_ context.Context, path string) (bool, error) {
	if err := b.checkPath(path); err != nil {
		return false, err
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Download fetches url into destPath. The body is written to a temp file and
// only renamed into place on a 2xx status, so a failed download never leaves a
// partial file at destPath.
func (b *BlobStorage) Download(ctx context.Context, url, destPath string) (interfaces.DownloadResult, error) {
	result := interfaces.DownloadResult{URI: destPath}
	if err := b.checkPath(destPath); err != nil {
		return result, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, fmt.Errorf("building request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return result, err
	}

	tmpFile := destPath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return result, err
	}

	if _, err = io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return result, fmt.Errorf("writing %s: %w", destPath, err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return result, err
	}

	if err = os.Rename(tmpFile, destPath); err != nil {
		os.Remove(tmpFile)
		return result, err
	}

	b.logger.Debugf(providers.TypeCache, "Downloaded %s to %s", url, destPath)
	return result, nil
}

func (b *BlobStorage) Delete(_ context.Context, path string, idempotent bool) error {
	if err := b.checkPath(path); err != nil {
		return err
	}
	err := os.Remove(path)
	if err != nil && idempotent && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (b *BlobStorage) checkPath(path string) error {
	rel, err := filepath.Rel(b.root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path %s is outside of cache dir %s", path, b.root)
	}
	return nil
}
