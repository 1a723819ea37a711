package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"combinepy/pkg/aggregate"
	"combinepy/pkg/filelock"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// runCombine aggregates the working directory with the built-in configuration
// while holding the output lock.
func runCombine(ctx context.Context, out io.Writer, logger *zap.Logger) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	agg, err := aggregate.New(aggregate.DefaultConfig(wd), afero.NewOsFs(), logger,
		aggregate.WithConsole(out, isTerminal(out)))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	lock := filelock.ForOutput(agg.Config().OutputPath)
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("another run is writing %s: %w", agg.Config().OutputPath, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release output lock", zap.String("lock", lock.Path()), zap.Error(err))
		}
	}()

	_, err = agg.Run(ctx)
	return err
}

// isTerminal reports whether w is a terminal, which decides whether the
// completion message is colored.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
