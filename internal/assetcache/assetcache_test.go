package assetcache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"citapush/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testManifest = []string{
	"/",
	"/manifest.json",
	"/static/icons/icon-192x192.png",
	"/static/icons/icon-512x512.png",
}

type fakeFetcher struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	failOn   map[string]bool
	fetched  []string
	fetchCnt int
}

func newFakeFetcher(paths ...string) *fakeFetcher {
	entries := make(map[string]*Entry, len(paths))
	for _, path := range paths {
		entries[path] = &Entry{Body: []byte("content of " + path), ContentType: "text/plain"}
	}

	return &fakeFetcher{entries: entries, failOn: make(map[string]bool)}
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) (*Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCnt++
	f.fetched = append(f.fetched, path)

	if f.failOn[path] {
		return nil, errors.Errorf("fetch %q: unexpected status 500", path)
	}
	entry, ok := f.entries[path]
	if !ok {
		return nil, errors.Errorf("fetch %q: unexpected status 404", path)
	}

	return entry, nil
}

func (f *fakeFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fetchCnt
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCache_Populate_AllManifestPathsServedWithoutNetwork(t *testing.T) {
	fetcher := newFakeFetcher(testManifest...)
	cache := New("wabot-v2", testManifest, fetcher, newDiscardLogger())

	require.NoError(t, cache.Populate(context.Background()))
	assert.True(t, cache.Populated())

	before := fetcher.count()
	for _, path := range testManifest {
		entry, hit, err := cache.Serve(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, hit, "expected cache hit for %s", path)
		assert.Equal(t, []byte("content of "+path), entry.Body)
	}
	// Serving cached entries must not touch the network
	assert.Equal(t, before, fetcher.count())
}

func TestCache_Populate_AllOrNothing(t *testing.T) {
	fetcher := newFakeFetcher(testManifest...)
	fetcher.failOn["/manifest.json"] = true
	cache := New("wabot-v2", testManifest, fetcher, newDiscardLogger())

	err := cache.Populate(context.Background())
	require.Error(t, err)
	assert.False(t, cache.Populated())

	// Even the asset fetched before the failure must not be cached
	fetcher.failOn["/manifest.json"] = false
	before := fetcher.count()
	_, hit, err := cache.Serve(context.Background(), "/")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, before+1, fetcher.count())
}

func TestCache_Serve_MissFallsBackToNetworkUncached(t *testing.T) {
	fetcher := newFakeFetcher(testManifest...)
	fetcher.entries["/extra.css"] = &Entry{Body: []byte("body{}"), ContentType: "text/css"}
	cache := New("wabot-v2", testManifest, fetcher, newDiscardLogger())
	require.NoError(t, cache.Populate(context.Background()))

	entry, hit, err := cache.Serve(context.Background(), "/extra.css")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "text/css", entry.ContentType)

	// A second request misses again: the store is write-once at install
	_, hit, err = cache.Serve(context.Background(), "/extra.css")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Serve_MissPropagatesFetchError(t *testing.T) {
	fetcher := newFakeFetcher(testManifest...)
	cache := New("wabot-v2", testManifest, fetcher, newDiscardLogger())
	require.NoError(t, cache.Populate(context.Background()))

	_, _, err := cache.Serve(context.Background(), "/missing.png")
	assert.Error(t, err)
}

func TestRegistry_OpenIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	fetcher := newFakeFetcher(testManifest...)

	first := registry.Open("wabot-v2", testManifest, fetcher, newDiscardLogger())
	second := registry.Open("wabot-v2", testManifest, fetcher, newDiscardLogger())

	assert.Same(t, first, second)
}

func TestRegistry_DropSuperseded(t *testing.T) {
	registry := NewRegistry()
	fetcher := newFakeFetcher(testManifest...)

	registry.Open("wabot-v1", testManifest, fetcher, newDiscardLogger())
	registry.Open("wabot-v2", testManifest, fetcher, newDiscardLogger())
	registry.Open("otherapp-v1", testManifest, fetcher, newDiscardLogger())

	dropped := registry.DropSuperseded("wabot-", "wabot-v2")

	assert.Equal(t, []string{"wabot-v1"}, dropped)
	assert.ElementsMatch(t, []string{"wabot-v2", "otherapp-v1"}, registry.Names())
}
