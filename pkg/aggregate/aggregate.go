// Package aggregate collects source files below a root directory and
// concatenates them into a single file, each one bracketed by start and end
// marker comments naming its path relative to the root.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Result describes a completed run.
type Result struct {
	OutputPath string // Absolute path of the combined file.
	Files      int    // Number of source files written.
	Bytes      int64  // Total bytes written, markers included.
}

// Aggregator runs traversal, ordering and concatenation for one Config.
type Aggregator struct {
	cfg      Config
	fs       afero.Fs
	logger   *zap.Logger
	console  io.Writer
	colorize bool
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithConsole sets where the completion message is printed and whether it is colored.
func WithConsole(w io.Writer, colorize bool) Option {
	return func(a *Aggregator) {
		a.console = w
		a.colorize = colorize
	}
}

// New validates cfg and returns an Aggregator working on fsys.
// A nil fsys means the OS filesystem; a nil logger discards logs.
func New(cfg Config, fsys afero.Fs, logger *zap.Logger, opts ...Option) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Aggregator{
		cfg:     cfg,
		fs:      fsys,
		logger:  logger,
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Config returns the normalized configuration in use.
func (a *Aggregator) Config() Config {
	return a.cfg
}

// Run collects, orders and writes all eligible files, then prints a single
// completion line naming the output file.
func (a *Aggregator) Run(ctx context.Context) (Result, error) {
	startTime := time.Now()
	a.logger.Debug("Starting aggregation",
		zap.String("root", a.cfg.Root),
		zap.String("output", a.cfg.OutputPath))

	files, err := a.Collect(ctx)
	if err != nil {
		a.logger.Error("Failed to collect files", zap.Error(err))
		return Result{}, fmt.Errorf("failed to collect files: %w", err)
	}

	ordered := Order(files)
	a.logger.Debug("Sorted collected files", zap.Int("count", len(ordered)))

	res, err := a.Write(ctx, ordered)
	if err != nil {
		a.logger.Error("Failed to write combined file", zap.String("output", a.cfg.OutputPath), zap.Error(err))
		return Result{}, fmt.Errorf("failed to write combined file: %w", err)
	}

	a.announce(res)
	a.logger.Info("Aggregation completed",
		zap.String("output", res.OutputPath),
		zap.Int("files", res.Files),
		zap.String("size", units.HumanSize(float64(res.Bytes))),
		zap.Duration("elapsed", time.Since(startTime)))
	return res, nil
}

func (a *Aggregator) announce(res Result) {
	c := color.New(color.FgGreen)
	if a.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	if _, err := c.Fprintf(a.console, "All files have been concatenated into %s\n", res.OutputPath); err != nil {
		a.logger.Warn("Failed to print completion message", zap.Error(err))
	}
}
