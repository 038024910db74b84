package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/ginjaninja78/freight-tracker/internal/types"
)

// maxBodyBytes caps a downloaded sheet.
const maxBodyBytes = 64 << 20

// ErrBodyTooLarge is returned when a download exceeds the size cap. A
// truncated sheet is never decoded.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// HTTPSource downloads the sheet with GET.
//
// Every request carries Cache-Control: no-store so an intermediate cache
// never serves a stale export. Network errors and 5xx responses are retried
// up to Retries times with exponential backoff; 4xx responses fail at once.
type HTTPSource struct {
	URL     string
	Decoder Decoder

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Timeout applies to each attempt. Default: 20s.
	Timeout time.Duration

	// Retries is the number of extra attempts.
	Retries int

	// Backoff is the first retry delay. Default: 500ms.
	Backoff time.Duration

	// MaxBytes caps the body size. Default: 64 MB.
	MaxBytes int64

	Logger *zap.Logger
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (*types.Dataset, error) {
	logger := nopIfNil(s.Logger)

	base := s.Backoff
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	retries := s.Retries
	if retries < 0 {
		retries = 0
	}
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(base))

	var body []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		data, err := s.get(ctx)
		if err != nil {
			logger.Warn("sheet download failed",
				zap.String("url", s.URL),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", s.URL, err)
	}

	ds, err := s.Decoder.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.URL, err)
	}
	ds.Origin = s.URL

	logger.Debug("sheet downloaded",
		zap.String("url", s.URL),
		zap.Int("bytes", len(body)),
		zap.Int("attempts", attempt),
	)
	return ds, nil
}

// get performs one attempt. Retryable failures are wrapped with
// retry.RetryableError.
func (s *HTTPSource) get(ctx context.Context) ([]byte, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, retry.RetryableError(fmt.Errorf("unexpected status %s", resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("failed to read body: %w", err))
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}

// Describe implements Source.
func (s *HTTPSource) Describe() string {
	return "http:" + s.URL
}
