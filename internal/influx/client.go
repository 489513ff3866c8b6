package influx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	ihttp "github.com/influxdata/influxdb-client-go/v2/api/http"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/jamesprial/apcupsd-influx/internal/config"
)

// Compile-time interface checks.
var (
	_ Store     = (*Client)(nil)
	_ Writer    = (*blockingWriter)(nil)
	_ Connector = Connect
)

// Client implements Store on top of the official InfluxDB v2 client.
type Client struct {
	client influxdb2.Client
	org    string
}

// NewClient constructs a Client for cfg. No network traffic happens until
// the first call; use Ping to check reachability. It returns an error if
// the host, token or organization is empty.
func NewClient(cfg config.InfluxConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("influx: host is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("influx: token is required")
	}
	if cfg.Org == "" {
		return nil, errors.New("influx: organization is required")
	}

	return &Client{
		client: influxdb2.NewClient(cfg.URL(), cfg.Token),
		org:    cfg.Org,
	}, nil
}

// Connect is the Connector backed by NewClient.
func Connect(cfg config.InfluxConfig) (Store, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Ping reports whether the server is up.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	ok, err := c.client.Ping(ctx)
	if err != nil {
		return false, fmt.Errorf("influx: ping: %w", err)
	}
	return ok, nil
}

// FindBucket reports whether a bucket called name exists. A missing bucket
// is not an error.
func (c *Client) FindBucket(ctx context.Context, name string) (bool, error) {
	b, err := c.client.BucketsAPI().FindBucketByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("influx: find bucket %q: %w", name, err)
	}
	return b != nil, nil
}

// CreateBucket creates name in the client's organization with the server's
// default retention.
func (c *Client) CreateBucket(ctx context.Context, name string) error {
	org, err := c.client.OrganizationsAPI().FindOrganizationByName(ctx, c.org)
	if err != nil {
		return fmt.Errorf("influx: find organization %q: %w", c.org, err)
	}
	if _, err := c.client.BucketsAPI().CreateBucketWithName(ctx, org, name); err != nil {
		return fmt.Errorf("influx: create bucket %q: %w", name, err)
	}
	return nil
}

// Writer returns a synchronous writer for bucket.
func (c *Client) Writer(bucket string) Writer {
	return &blockingWriter{
		api:    c.client.WriteAPIBlocking(c.org, bucket),
		bucket: bucket,
	}
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.client.Close()
}

type blockingWriter struct {
	api    api.WriteAPIBlocking
	bucket string
}

func (w *blockingWriter) WritePoint(ctx context.Context, p Point) error {
	pt := write.NewPoint(p.Measurement, p.Tags, p.Fields, p.Time)
	if err := w.api.WritePoint(ctx, pt); err != nil {
		return fmt.Errorf("influx: write to %q: %w", w.bucket, err)
	}
	return nil
}

// isNotFound recognises both a 404 from the API and the client's own
// "bucket not found" error for an empty result set.
func isNotFound(err error) bool {
	var herr *ihttp.Error
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusNotFound
	}
	return strings.Contains(err.Error(), "not found")
}
