package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"citapush/config"
	"citapush/internal/assetcache"
	"citapush/internal/errors"
	"citapush/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lateFetcher refuses connections for the first few attempts, the way
// an origin that is still binding its listener does.
type lateFetcher struct {
	failures int
	fetches  int
}

func (f *lateFetcher) Fetch(_ context.Context, path string) (*assetcache.Entry, error) {
	f.fetches++
	if f.fetches <= f.failures {
		return nil, errors.Errorf("fetch asset %q: connection refused", path)
	}

	return &assetcache.Entry{Body: []byte("ok"), ContentType: "text/plain"}, nil
}

func newInstallingRegistration(fetcher assetcache.Fetcher) *worker.Registration {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Push = &config.PushConfig{DefaultURL: "/profesional"}
	cfg.Cache = &config.CacheConfig{Name: "wabot-v2", Prefix: "wabot-", Manifest: []string{"/"}}

	registry := assetcache.NewRegistry()
	cache := registry.Open(cfg.Cache.Name, cfg.Cache.Manifest, fetcher, logger)

	return worker.New(cfg, cache, registry, nil, nil, nil, logger)
}

func TestInstallWithRetry_SurvivesSlowOrigin(t *testing.T) {
	fetcher := &lateFetcher{failures: 2}
	registration := newInstallingRegistration(fetcher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := installWithRetry(context.Background(), registration, logger, time.Millisecond, time.Second)

	require.NoError(t, err)
	assert.Equal(t, worker.StateInstalled, registration.State())
	assert.Equal(t, 3, fetcher.fetches)
}

func TestInstallWithRetry_GivesUpAtBound(t *testing.T) {
	fetcher := &lateFetcher{failures: 1 << 30}
	registration := newInstallingRegistration(fetcher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := installWithRetry(context.Background(), registration, logger, time.Millisecond, 10*time.Millisecond)

	assert.Error(t, err)
	assert.Equal(t, worker.StateInstalling, registration.State())
}

func TestInstallWithRetry_StopsOnCancel(t *testing.T) {
	fetcher := &lateFetcher{failures: 1 << 30}
	registration := newInstallingRegistration(fetcher)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := installWithRetry(ctx, registration, logger, time.Hour, time.Hour)

	assert.Error(t, err)
	assert.Equal(t, 1, fetcher.fetches)
}
