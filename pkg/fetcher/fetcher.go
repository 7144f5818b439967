// pkg/fetcher/fetcher.go
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/nyc-open-data/arrest-ingress/pkg/config"
	"github.com/nyc-open-data/arrest-ingress/pkg/model"
)

// Client pages through a Socrata-style JSON resource using the $limit and
// $offset query parameters.
type Client struct {
	endpoint string
	appToken string
	pageSize int
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a fetcher for the configured API endpoint.
func NewClient(cfg *config.APIConfig, logger *zap.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		appToken: cfg.AppToken,
		pageSize: cfg.PageSize,
		// No client timeout: a page request blocks until the server
		// responds or the request context is cancelled.
		http:   &http.Client{},
		logger: logger.Named("fetcher"),
	}
}

// Fetch retrieves every page of the resource and accumulates all records
// into a single table.
//
// A page returning fewer records than the page size signals the last page.
// Known limitation: an upstream that returns a short page before the true
// end of data terminates the fetch early. When the full record count is an
// exact multiple of the page size, one extra request returning an empty
// page confirms termination.
//
// A non-200 status stops pagination and returns whatever has been
// accumulated so far. A network-level fault aborts the whole fetch and
// propagates to the caller; there is no retry.
func (c *Client) Fetch(ctx context.Context) (*model.Table, error) {
	table := model.NewTable()

	for offset := 0; ; offset += c.pageSize {
		records, status, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("page request at offset %d failed: %w", offset, err)
		}

		if status != http.StatusOK {
			c.logger.Warn("API request failed, keeping partial result",
				zap.Int("status_code", status),
				zap.Int("offset", offset),
				zap.Int("rows_accumulated", table.RowCount()))
			return table, nil
		}

		table.Append(records...)
		c.logger.Info("Fetched page",
			zap.Int("records", len(records)),
			zap.Int("offset", offset),
			zap.Int("rows_accumulated", table.RowCount()))

		if len(records) < c.pageSize {
			break
		}
	}

	return table, nil
}

// fetchPage issues a single page request. A non-200 response is not an
// error here; the status is returned for the caller to act on.
func (c *Client) fetchPage(ctx context.Context, offset int) ([]model.Record, int, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}

	q := u.Query()
	q.Set("$limit", strconv.Itoa(c.pageSize))
	q.Set("$offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-App-Token", c.appToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain the body so the underlying connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var records []model.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decoding page at offset %d: %w", offset, err)
	}

	return records, resp.StatusCode, nil
}
