// File: pkg/aggregate/source.go
package aggregate

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// trackingReader remembers the first non-EOF error of the underlying reader
// so failures of the file itself can be told apart from validation failures.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

// trackingWriter does the same for the destination.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// copySource streams the file at path into w, failing if the content is not
// valid UTF-8. Bytes are passed through unchanged.
func (a *Aggregator) copySource(w io.Writer, path string) (int64, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return 0, &Error{Op: "read", Kind: KindRead, Path: path, Err: err}
	}
	defer f.Close()

	src := &trackingReader{r: f}
	dst := &trackingWriter{w: w}
	n, err := io.Copy(dst, transform.NewReader(src, encoding.UTF8Validator))
	switch {
	case err == nil:
		return n, nil
	case src.err != nil:
		return n, &Error{Op: "read", Kind: KindRead, Path: path, Err: src.err}
	case dst.err != nil:
		return n, &Error{Op: "write", Kind: KindWrite, Path: path, Err: dst.err}
	default:
		return n, &Error{Op: "read", Kind: KindRead, Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidEncoding, err)}
	}
}
