// Package directory is the read-only client of the external user directory,
// which resolves a patient or dentist id to a display name.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"dentalcare-scheduling/config"
	"dentalcare-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrLookupFailed wraps the per-id failures of a batch
var ErrLookupFailed = errors.New("directory lookup failed")

const defaultRetryBackoff = 100 * time.Millisecond

type Client struct {
	baseURL      string
	httpClient   *http.Client
	log          *logrus.Logger
	maxRetries   int
	concurrency  int
	retryBackoff time.Duration
}

func NewClient(cfg config.DirectoryConfig, log *logrus.Logger) *Client {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          log,
		maxRetries:   cfg.MaxRetries,
		concurrency:  concurrency,
		retryBackoff: defaultRetryBackoff,
	}
}

// LookupNames resolves every id with at most `concurrency` requests in flight.
// Ids the directory does not know are left out. When some lookups fail the
// names that did resolve are still returned together with ErrLookupFailed.
func (c *Client) LookupNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PersonName, error) {
	names := make(map[uuid.UUID]entity.PersonName, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var (
		mu       sync.Mutex
		failures []error
		g        errgroup.Group
	)
	g.SetLimit(c.concurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			name, found, err := c.lookup(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Errorf("%s: %w", id, err))
				return nil
			}
			if found {
				names[id] = name
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return names, fmt.Errorf("%w: %w", ErrLookupFailed, errors.Join(failures...))
	}
	return names, nil
}

func (c *Client) lookup(ctx context.Context, id uuid.UUID) (entity.PersonName, bool, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return entity.PersonName{}, false, ctx.Err()
			case <-time.After(c.retryBackoff << (attempt - 1)):
			}
		}

		name, found, retryable, err := c.fetch(ctx, id)
		if err == nil {
			return name, found, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		c.log.Debugf("Directory lookup for %s failed (attempt %d): %v", id, attempt+1, err)
	}
	return entity.PersonName{}, false, lastErr
}

func (c *Client) fetch(ctx context.Context, id uuid.UUID) (name entity.PersonName, found bool, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+id.String(), nil)
	if err != nil {
		return name, false, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return name, false, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&name); err != nil {
			return name, false, false, fmt.Errorf("decode directory response: %w", err)
		}
		return name, true, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return name, false, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return name, false, true, fmt.Errorf("directory returned %d", resp.StatusCode)
	default:
		return name, false, false, fmt.Errorf("directory returned %d", resp.StatusCode)
	}
}
