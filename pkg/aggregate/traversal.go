// File: pkg/aggregate/traversal.go
package aggregate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Collect walks the root and returns the absolute paths of every eligible
// file, in no particular order. Excluded directories are pruned before they
// are entered. Errors below the root do not stop the walk; they are gathered
// and returned together once it finishes.
func (a *Aggregator) Collect(ctx context.Context) ([]string, error) {
	root := a.cfg.Root
	if err := a.checkRoot(); err != nil {
		return nil, err
	}
	walkRoot, err := a.resolve(root)
	if err != nil {
		return nil, &Error{Op: "collect", Kind: KindConfig, Path: root, Err: err}
	}
	output := a.cfg.OutputPath
	if dir, err := a.resolve(filepath.Dir(output)); err == nil {
		output = filepath.Join(dir, filepath.Base(output))
	}
	a.logger.Debug("Starting file traversal", zap.String("root", root), zap.String("resolvedRoot", walkRoot))

	var (
		files    []string
		walkErrs error
	)
	err = afero.Walk(a.fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == walkRoot {
				return err
			}
			a.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			walkErrs = multierr.Append(walkErrs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		if info.IsDir() {
			if path != walkRoot && a.cfg.ExcludedDirs.Has(info.Name()) {
				a.logger.Debug("Skipping excluded directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !a.cfg.eligible(info.Name()) {
			return nil
		}
		if path == output {
			a.logger.Debug("Skipping output file", zap.String("file", path))
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 && a.isDirLink(path) {
			a.logger.Debug("Skipping symlink to directory", zap.String("path", path))
			return nil
		}

		// Report paths under the configured root so markers stay relative to it.
		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		file := filepath.Join(root, rel)
		if file == a.cfg.OutputPath {
			a.logger.Debug("Skipping output file", zap.String("file", file))
			return nil
		}
		files = append(files, file)
		a.logger.Debug("Collected file", zap.String("file", file))
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Op: "collect", Kind: KindConfig, Path: root, Err: err}
	}
	if walkErrs != nil {
		return nil, &Error{Op: "collect", Kind: KindTraversal, Path: root, Err: walkErrs}
	}

	a.logger.Debug("Completed file traversal", zap.Int("files", len(files)))
	return files, nil
}

func (a *Aggregator) checkRoot() error {
	info, err := a.fs.Stat(a.cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %v", ErrRootNotFound, err)
		}
		return &Error{Op: "collect", Kind: KindConfig, Path: a.cfg.Root, Err: err}
	}
	if !info.IsDir() {
		return &Error{Op: "collect", Kind: KindConfig, Path: a.cfg.Root, Err: ErrRootNotDir}
	}
	return nil
}

// resolve follows symlinks in path when the filesystem is the OS one, so a
// root reached through a link is walked as the directory it points to.
// Other filesystems have no links and path is returned unchanged.
func (a *Aggregator) resolve(path string) (string, error) {
	if _, ok := a.fs.(*afero.OsFs); !ok {
		return path, nil
	}
	return filepath.EvalSymlinks(path)
}

// isDirLink reports whether the symlink at path resolves to a directory.
// Broken links are kept so that the read fails loudly later.
func (a *Aggregator) isDirLink(path string) bool {
	target, err := a.fs.Stat(path)
	return err == nil && target.IsDir()
}
