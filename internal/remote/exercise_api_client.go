package remote

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"vivafit/internal/models"
	"vivafit/internal/providers"
	"vivafit/internal/remote/interfaces"
	"vivafit/internal/structures"

	json "github.com/goccy/go-json"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidID        = errors.New("invalid exercise id")
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

type wgerExerciseInfo struct {
	ID       int `json:"id"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
	Muscles []struct {
		Name   string `json:"name"`
		NameEn string `json:"name_en"`
	} `json:"muscles"`
	Equipment []struct {
		Name string `json:"name"`
	} `json:"equipment"`
	Images []struct {
		Image  string `json:"image"`
		IsMain bool   `json:"is_main"`
	} `json:"images"`
	Translations []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    int    `json:"language"`
	} `json:"translations"`
}

// ExerciseAPIClient reads exercise metadata from a wger-compatible API.
// Raw responses are kept in the response cache keyed by exercise id.
type ExerciseAPIClient struct {
	baseURL    string
	language   int
	retries    int
	backoff    time.Duration
	httpClient *http.Client
	cache      providers.CacheProviderInterface
	logger     providers.Logger
}

func NewExerciseAPIClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) interfaces.ExerciseAPIInterface {
	return &ExerciseAPIClient{
		baseURL:    strings.TrimRight(conf.ExerciseAPI.BaseURL, "/"),
		language:   conf.ExerciseAPI.Language,
		retries:    max(conf.ExerciseAPI.Retries, 1),
		backoff:    500 * time.Millisecond,
		httpClient: &http.Client{Timeout: conf.ExerciseAPI.Timeout},
		cache:      cache,
		logger:     logger,
	}
}

func (c *ExerciseAPIClient) FetchExercise(ctx context.Context, id string) (*models.ExerciseMetadata, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	key := "exerciseinfo:" + id
	body, ok := c.cache.Get(key)
	if !ok {
		var err error
		body, err = c.get(ctx, fmt.Sprintf("%s/exerciseinfo/%s/", c.baseURL, id))
		if err != nil {
			return nil, err
		}
	}

	var info wgerExerciseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding exerciseinfo %s: %w", id, err)
	}
	if !ok {
		c.cache.Set(key, body)
	}

	return c.toMetadata(id, &info), nil
}

// get performs a GET with retries and exponential backoff. 4xx responses are
// not retried.
func (c *ExerciseAPIClient) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.retries {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(1<<uint(attempt-1))):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Debugf(providers.TypeCache, "exerciseinfo attempt %d failed: %s", attempt+1, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrExerciseNotFound
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, fmt.Errorf("exerciseinfo request failed (status %d): %s", resp.StatusCode, body)
		default:
			lastErr = fmt.Errorf("exerciseinfo request failed (status %d): %s", resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}

func (c *ExerciseAPIClient) toMetadata(id string, info *wgerExerciseInfo) *models.ExerciseMetadata {
	meta := &models.ExerciseMetadata{
		ID:       id,
		Category: info.Category.Name,
	}

	for i, t := range info.Translations {
		if t.Language == c.language || i == 0 {
			meta.Name = strings.TrimSpace(t.Name)
			meta.Description = cleanDescription(t.Description)
			if t.Language == c.language {
				break
			}
		}
	}

	for _, m := range info.Muscles {
		name := m.NameEn
		if name == "" {
			name = m.Name
		}
		meta.Muscles = append(meta.Muscles, name)
	}
	for _, e := range info.Equipment {
		meta.Equipment = append(meta.Equipment, e.Name)
	}
	for _, img := range info.Images {
		if img.IsMain {
			meta.Images = append([]string{img.Image}, meta.Images...)
		} else {
			meta.Images = append(meta.Images, img.Image)
		}
	}
	return meta
}

func cleanDescription(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(tagPattern.ReplaceAllString(s, " "))), " ")
}
