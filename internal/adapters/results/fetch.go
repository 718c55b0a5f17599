package results

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/matchpredictor/internal/domain/model"
)

const (
	defaultFetchTimeout = 60 * time.Second
	fetchRetries        = 2
	fetchRetryWait      = 2 * time.Second
)

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func newHTTPClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetRetryCount(fetchRetries)
	c.SetRetryWaitTime(fetchRetryWait)
	return c
}

// fetch downloads a remote results file and parses it like a local one.
func (l *loader) fetch(ctx context.Context, url string, out []model.Result) ([]model.Result, error) {
	if l.client == nil {
		l.client = newHTTPClient(defaultFetchTimeout)
	}

	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadResults, url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrLoadResults, url, resp.StatusCode())
	}

	out, err = l.read(ctx, bytes.NewReader(resp.Body()), out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return out, nil
}
