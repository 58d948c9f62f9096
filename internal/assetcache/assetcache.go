// Package assetcache implements the install-time asset cache: a named
// store populated once from a fixed manifest, serving cached entries
// with live network fallback afterwards.
package assetcache

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"citapush/internal/errors"
)

// Entry is one cached response.
type Entry struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves a resource from the origin.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (*Entry, error)
}

// HTTPFetcher fetches origin resources over HTTP.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPFetcher creates a fetcher rooted at the origin base URL.
func NewHTTPFetcher(baseURL string, client *http.Client) (*HTTPFetcher, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse origin base url")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{base: base, client: client}, nil
}

// Fetch performs a GET against the origin. Non-2xx statuses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (*Entry, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parse asset path %q", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build asset request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch asset %q", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("fetch asset %q: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read asset %q", path)
	}

	return &Entry{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Cache is one named cache store. It is written exactly once, during
// Populate, and read lock-free afterwards.
type Cache struct {
	name     string
	manifest []string
	fetcher  Fetcher
	logger   *slog.Logger

	mu        sync.RWMutex
	entries   map[string]*Entry
	populated bool
}

// New creates an empty cache store for the given manifest.
func New(name string, manifest []string, fetcher Fetcher, logger *slog.Logger) *Cache {
	return &Cache{
		name:     name,
		manifest: manifest,
		fetcher:  fetcher,
		logger:   logger,
		entries:  make(map[string]*Entry, len(manifest)),
	}
}

// Name returns the store name.
func (c *Cache) Name() string {
	return c.name
}

// Populated reports whether install-time population completed.
func (c *Cache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.populated
}

// Populate bulk-fetches every manifest path into the store. All or
// nothing: any fetch failure leaves the store empty so a partial cache
// is never observable.
func (c *Cache) Populate(ctx context.Context) error {
	staged := make(map[string]*Entry, len(c.manifest))
	for _, path := range c.manifest {
		entry, err := c.fetcher.Fetch(ctx, path)
		if err != nil {
			return errors.Wrapf(err, "populate cache %q", c.name)
		}
		staged[path] = entry
	}

	c.mu.Lock()
	c.entries = staged
	c.populated = true
	c.mu.Unlock()

	c.logger.Info("Asset cache populated",
		slog.String("cache", c.name),
		slog.Int("assets", len(staged)),
	)

	return nil
}

// Serve answers a request cache-first. A hit returns the stored entry;
// a miss performs a live fetch and returns the response uncached (the
// store is write-once at install).
func (c *Cache) Serve(ctx context.Context, path string) (entry *Entry, hit bool, err error) {
	c.mu.RLock()
	cached, ok := c.entries[path]
	c.mu.RUnlock()

	if ok {
		return cached, true, nil
	}

	live, err := c.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, false, err
	}

	return live, false, nil
}

// Registry tracks the named cache stores of one origin so superseded
// versions can be found and dropped on activation.
type Registry struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

// NewRegistry creates an empty cache registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// Open registers a store under its name, creating it when absent.
func (r *Registry) Open(name string, manifest []string, fetcher Fetcher, logger *slog.Logger) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cache, ok := r.caches[name]; ok {
		return cache
	}

	cache := New(name, manifest, fetcher, logger)
	r.caches[name] = cache

	return cache
}

// Names lists the registered store names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}

	return names
}

// DropSuperseded deletes every store that shares prefix but is not keep,
// returning the dropped names. Called on worker activation so a version
// bump replaces the previous cache instead of leaking it.
func (r *Registry) DropSuperseded(prefix, keep string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped []string
	for name := range r.caches {
		if name == keep {
			continue
		}
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			delete(r.caches, name)
			dropped = append(dropped, name)
		}
	}

	return dropped
}
