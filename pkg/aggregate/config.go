// File: pkg/aggregate/config.go
package aggregate

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultOutputName is the file written into the root by DefaultConfig.
const DefaultOutputName = "combined_project.py"

// Set is an immutable-by-convention set of strings.
type Set map[string]struct{}

// NewSet builds a Set from the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set. A nil set contains nothing.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Config holds the options for one aggregation run.
type Config struct {
	Root                string // Directory the traversal starts from.
	ExcludedDirs        Set    // Directory names pruned wherever they appear below Root.
	ExcludedFiles       Set    // File names that are never collected.
	SupportedExtensions Set    // Extensions (with leading dot) a file must have to be collected.
	OutputPath          string // Destination of the combined file.
	Workers             int    // Files read ahead concurrently; 1 or less reads strictly in order.
}

// DefaultConfig returns the built-in configuration anchored at root.
func DefaultConfig(root string) Config {
	return Config{
		Root:                root,
		ExcludedDirs:        NewSet("__pycache__", "venv", ".git", "logs", "data", "artifacts", "build", "dist"),
		ExcludedFiles:       NewSet("README.md"),
		SupportedExtensions: NewSet(".py"),
		OutputPath:          filepath.Join(root, DefaultOutputName),
		Workers:             1,
	}
}

// Validate checks that the paths needed for a run are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return &Error{Op: "config", Kind: KindConfig, Err: errors.New("root directory is required")}
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return &Error{Op: "config", Kind: KindConfig, Err: errors.New("output path is required")}
	}
	return nil
}

// normalize resolves Root and OutputPath to clean absolute paths.
func (c Config) normalize() (Config, error) {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return c, &Error{Op: "config", Kind: KindConfig, Path: c.Root, Err: err}
	}
	output, err := filepath.Abs(c.OutputPath)
	if err != nil {
		return c, &Error{Op: "config", Kind: KindConfig, Path: c.OutputPath, Err: err}
	}
	c.Root = root
	c.OutputPath = output
	return c, nil
}

// eligible reports whether a file name passes the exclusion and extension checks.
func (c Config) eligible(name string) bool {
	if c.ExcludedFiles.Has(name) {
		return false
	}
	return c.SupportedExtensions.Has(extension(name))
}

// extension returns the extension of name, treating leading dots as part of
// the stem so that ".py" or ".bashrc" have no extension.
func extension(name string) string {
	stem := strings.TrimLeft(name, ".")
	if stem == "" {
		return ""
	}
	return filepath.Ext(stem)
}
