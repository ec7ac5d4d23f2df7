// Package resolve finds the encoded bytes of a comic, preferring the local
// cache over the network.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
)

type Cache interface {
	Get(n int) ([]byte, error)
	Put(n int, data []byte) error
}

type Source interface {
	Image(ctx context.Context, n int) ([]byte, error)
}

// ResolutionError reports that neither the cache nor the source could
// provide comic Index.
type ResolutionError struct {
	Index    int
	CacheErr error
	FetchErr error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve comic %d: %v", e.Index, e.FetchErr)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{e.CacheErr, e.FetchErr}
}

type Resolver struct {
	Cache  Cache
	Source Source
	Logger *slog.Logger
}

// Bytes returns comic n from the cache, or fetches it once and stores it.
// Failing to store it only logs a warning.
func (r *Resolver) Bytes(ctx context.Context, n int) ([]byte, error) {
	logger := r.Logger.With("index", n)

	data, cacheErr := r.Cache.Get(n)
	if cacheErr == nil {
		logger.Info("using cached comic", "size", humanize.Bytes(uint64(len(data))))
		return data, nil
	}
	logger.Debug("cache miss", "error", cacheErr)

	data, err := r.Source.Image(ctx, n)
	if err != nil {
		return nil, &ResolutionError{Index: n, CacheErr: cacheErr, FetchErr: err}
	}
	logger.Info("fetched comic", "size", humanize.Bytes(uint64(len(data))))

	if err := r.Cache.Put(n, data); err != nil {
		logger.Warn("could not cache comic", "error", err)
	}
	return data, nil
}
