// Package avatar fetches chat avatars for rank boards.
package avatar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/waves-rank/internal/metrics"
	"github.com/xtding233/waves-rank/internal/timedcache"
)

const (
	cacheTTL  = 600 * time.Second
	cacheSize = 200
)

// Downloader fetches raw bytes; wwapi.Client satisfies it.
type Downloader interface {
	Download(ctx context.Context, endpoint, url string) ([]byte, error)
}

type Fetcher struct {
	dl          Downloader
	pattern     string // fmt pattern taking the user id
	cache       *timedcache.Cache[string, []byte]
	concurrency int
	log         *zap.Logger
	metrics     *metrics.Metrics
}

// New returns a fetcher. When cache is set avatars are kept for ten minutes.
func New(dl Downloader, pattern string, cache bool, concurrency int, log *zap.Logger, m *metrics.Metrics) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fetcher{dl: dl, pattern: pattern, concurrency: max(concurrency, 1), log: log.Named("avatar"), metrics: m}
	if cache {
		f.cache = timedcache.New[string, []byte](cacheSize, cacheTTL)
	}
	return f
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Get returns the avatar for userID, or nil when the id is not numeric or the download fails.
func (f *Fetcher) Get(ctx context.Context, userID string) []byte {
	if !numeric(userID) {
		return nil
	}
	if f.cache != nil {
		if b, ok := f.cache.Get(userID); ok {
			f.metrics.CacheLookup("avatar", true)
			return b
		}
		f.metrics.CacheLookup("avatar", false)
	}
	b, err := f.dl.Download(ctx, "avatar", fmt.Sprintf(f.pattern, userID))
	if err != nil {
		f.log.Debug("avatar download failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if f.cache != nil {
		f.cache.Set(userID, b)
	}
	return b
}

// GetAll fetches avatars concurrently. The result is aligned with userIDs.
func (f *Fetcher) GetAll(ctx context.Context, userIDs []string) [][]byte {
	out := make([][]byte, len(userIDs))
	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, id := range userIDs {
		g.Go(func() error {
			out[i] = f.Get(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
