// Package export delivers downloaded study documents. The Sink
// abstraction keeps screens free of filesystem side effects.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives a downloaded document and returns where it ended up.
type Sink interface {
	Deliver(data []byte, filename string) (string, error)
}

// FileSink writes documents into a fixed directory.
type FileSink struct {
	Dir string
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Deliver writes data under filename inside the sink directory, creating
// it if needed. An existing file is not overwritten; a numeric suffix is
// appended instead.
func (s *FileSink) Deliver(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(s.Dir, filepath.Base(filename))
	path = nextFree(path)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// nextFree returns path, or path with " (n)" before the extension when
// path already exists.
func nextFree(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
