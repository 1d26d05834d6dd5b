// Package stylerack provides the entry point for the stylerack product
// gallery system: a catalog browser and admin console backed by a remote
// image host where products are encoded as directory names.
//
// The package composes the remote gateway, the in-memory catalog with its
// derived facet pool and filter, and the admin session into one client.
// The catalog is rebuilt in full from each remote listing; all shared
// state mutates under the client's single coherent lock.
//
// Example usage:
//
//	app, err := stylerack.New(
//	    stylerack.WithToken(os.Getenv("IMGBED_API_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	app.Filter().Toggle(catalog.FacetSeason, "夏")
//	for _, p := range app.FilteredProducts() {
//	    fmt.Printf("%s %s\n", p.DisplayPrice(), p.Name)
//	}
package stylerack

import (
	"context"
	"sync"
	"time"

	"github.com/stylerack/stylerack/internal/gateway"
	"github.com/stylerack/stylerack/pkg/catalog"
	"github.com/stylerack/stylerack/pkg/constants"
	"github.com/stylerack/stylerack/pkg/logging"
	"github.com/stylerack/stylerack/pkg/session"
)

// Client owns the gallery state: the gateway, the catalog with its derived
// facet pool and active filter, and the admin session.
type Client struct {
	mu sync.RWMutex

	config  *Config
	gateway *gateway.Client
	catalog *catalog.Catalog
	pool    *catalog.Pool
	filter  *catalog.Filter
	session *session.Session
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the image host endpoint.
	BaseURL string

	// Token is the opaque bearer credential. Operations without it fail
	// locally before any network call.
	Token string

	// Dir is the remote gallery root that holds product folders.
	Dir string

	// HTTPTimeout bounds each request to the host.
	HTTPTimeout time.Duration

	// ClearQueueOnSelect selects between the two observed admin flows;
	// see session.WithClearQueueOnSelect.
	ClearQueueOnSelect bool
}

// DefaultConfig returns the configuration pointing at the default host.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     constants.DefaultBaseURL,
		Dir:         constants.DefaultGalleryDir,
		HTTPTimeout: constants.DefaultHTTPTimeout,
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithBaseURL sets the image host endpoint.
func WithBaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

// WithToken sets the bearer credential.
func WithToken(token string) Option {
	return func(c *Config) { c.Token = token }
}

// WithDir sets the remote gallery root directory.
func WithDir(dir string) Option {
	return func(c *Config) { c.Dir = dir }
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Config) { c.HTTPTimeout = d }
}

// WithClearQueueOnSelect makes product selection discard the staged
// upload queue.
func WithClearQueueOnSelect(clear bool) Option {
	return func(c *Config) { c.ClearQueueOnSelect = clear }
}

// New creates a client with the given options applied over defaults.
func New(opts ...Option) (*Client, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	gw := gateway.New(config.BaseURL, config.Token, gateway.WithTimeout(config.HTTPTimeout))

	return &Client{
		config:  config,
		gateway: gw,
		catalog: catalog.New(),
		pool:    catalog.NewPool(),
		filter:  catalog.NewFilter(),
		session: session.New(config.Dir, session.WithClearQueueOnSelect(config.ClearQueueOnSelect)),
	}, nil
}

// Config returns the client configuration.
func (c *Client) Config() *Config {
	return c.config
}

// Gateway returns the remote gateway client.
func (c *Client) Gateway() *gateway.Client {
	return c.gateway
}

// Catalog returns the in-memory catalog store.
func (c *Client) Catalog() *catalog.Catalog {
	return c.catalog
}

// Pool returns the derived facet value pool.
func (c *Client) Pool() *catalog.Pool {
	return c.pool
}

// Filter returns the active gallery filter.
func (c *Client) Filter() *catalog.Filter {
	return c.filter
}

// Session returns the admin session state machine.
func (c *Client) Session() *session.Session {
	return c.session
}

// Refresh fetches the remote listing and rebuilds the catalog and facet
// pool from scratch. A transport failure leaves the catalog empty rather
// than stale, and the error is returned for a retry-oriented message.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	listing, err := c.gateway.List(ctx, c.config.Dir, true)
	if err != nil {
		c.catalog.Build(catalog.Listing{})
		c.pool.Rebuild(nil)
		return err
	}

	files := make([]string, 0, len(listing.Files))
	for _, f := range listing.Files {
		files = append(files, f.Name)
	}

	stats := c.catalog.Build(catalog.Listing{
		Directories: listing.Directories,
		Files:       files,
	})
	c.pool.Rebuild(c.catalog.Products())

	logging.Ctx(ctx).Info().
		Int("products", stats.Products).
		Int("skipped_dirs", stats.SkippedDirs).
		Int("orphan_files", stats.OrphanFiles).
		Int("dropped_empty", stats.DroppedEmpty).
		Msg("catalog rebuilt")
	return nil
}

// FilteredProducts returns the catalog filtered by the active selections,
// preserving catalog order.
func (c *Client) FilteredProducts() []*catalog.Product {
	return c.filter.Apply(c.catalog.Products())
}

// SubmitUpload submits the staged queue through the gateway; see
// session.Submit for the fail-fast batch semantics.
func (c *Client) SubmitUpload(ctx context.Context) (*session.SubmitResult, error) {
	return c.session.Submit(ctx, c.gateway)
}

// DeleteImage deletes a remote image and cascades the removal locally;
// see session.DeleteImage.
func (c *Client) DeleteImage(ctx context.Context, imagePath string, confirmed bool) (*catalog.RemoveResult, error) {
	return c.session.DeleteImage(ctx, c.gateway, c.catalog, imagePath, confirmed)
}
