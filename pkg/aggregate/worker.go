// File: pkg/aggregate/worker.go
package aggregate

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// readAhead loads every file into memory using up to Workers concurrent
// readers. contents[i] holds the bytes of paths[i]. The first failure cancels
// the remaining reads.
func (a *Aggregator) readAhead(ctx context.Context, paths []string) ([][]byte, error) {
	contents := make([][]byte, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	a.logger.Debug("Starting read-ahead", zap.Int("workers", a.cfg.Workers), zap.Int("files", len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if _, err := a.copySource(&buf, path); err != nil {
				a.logger.Error("Failed to read file", zap.String("file", path), zap.Error(err))
				return err
			}
			contents[i] = buf.Bytes()
			a.logger.Debug("Read file", zap.String("file", path), zap.Int("sizeBytes", buf.Len()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
