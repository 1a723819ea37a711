// File: pkg/aggregate/writer.go
package aggregate

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// StartMarker returns the line pair written before the content of rel.
func StartMarker(rel string) string {
	return fmt.Sprintf("\n# ===== Start of %s =====\n\n", rel)
}

// EndMarker returns the line written after the content of rel.
func EndMarker(rel string) string {
	return fmt.Sprintf("\n# ===== End of %s =====\n", rel)
}

// Write concatenates the files in paths, in the given order, into the output
// file. The content goes to a temporary file next to the output that is
// renamed into place only once every entry has been written, so a failed run
// leaves any previous output untouched.
func (a *Aggregator) Write(ctx context.Context, paths []string) (Result, error) {
	output := a.cfg.OutputPath
	res := Result{OutputPath: output}
	a.logger.Debug("Writing combined content", zap.String("output", output), zap.Int("files", len(paths)))

	var contents [][]byte
	if a.cfg.Workers > 1 && len(paths) > 1 {
		var err error
		if contents, err = a.readAhead(ctx, paths); err != nil {
			return res, err
		}
	}

	dir := filepath.Dir(output)
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(output)+".tmp-*")
	if err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: err}
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
		}
		if !renamed {
			if rmErr := a.fs.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				a.logger.Warn("Failed to remove temporary file", zap.String("file", tmpPath), zap.Error(rmErr))
			}
		}
	}()

	writer := bufio.NewWriter(tmp)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rel, err := filepath.Rel(a.cfg.Root, path)
		if err != nil {
			return res, &Error{Op: "write", Kind: KindConfig, Path: path, Err: err}
		}

		n, err := writer.WriteString(StartMarker(rel))
		res.Bytes += int64(n)
		if err != nil {
			return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: err}
		}

		if contents != nil {
			n, err = writer.Write(contents[i])
			res.Bytes += int64(n)
			if err != nil {
				return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: err}
			}
		} else {
			copied, err := a.copySource(writer, path)
			res.Bytes += copied
			if err != nil {
				a.logger.Error("Failed to copy file content", zap.String("file", path), zap.Error(err))
				return res, err
			}
		}

		n, err = writer.WriteString(EndMarker(rel))
		res.Bytes += int64(n)
		if err != nil {
			return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: err}
		}
		res.Files++
		a.logger.Debug("Wrote file", zap.String("file", rel))
	}

	if err := writer.Flush(); err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: fmt.Errorf("failed to flush output: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: fmt.Errorf("failed to sync output: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		tmp = nil
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: fmt.Errorf("failed to close output: %w", err)}
	}
	tmp = nil
	if err := a.fs.Chmod(tmpPath, 0o644); err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: fmt.Errorf("failed to set permissions: %w", err)}
	}
	if err := a.fs.Rename(tmpPath, output); err != nil {
		return res, &Error{Op: "write", Kind: KindWrite, Path: output, Err: err}
	}
	renamed = true

	a.logger.Debug("Wrote combined file", zap.String("output", output), zap.Int64("sizeBytes", res.Bytes))
	return res, nil
}
