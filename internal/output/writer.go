package output

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission of newly written output files.
const DefaultFileMode os.FileMode = 0o644

// Writer delivers one complete rendered document.
type Writer interface {
	Write(doc []byte) error
}

// New picks the destination for an -o style path: the stream for "" or
// "-", a FileWriter otherwise.
func New(path string, stream io.Writer, opts ...FileOption) Writer {
	if path == "" || path == "-" {
		return NewStreamWriter(stream)
	}

	return NewFileWriter(path, opts...)
}

// StreamWriter copies documents to an io.Writer, normally stdout.
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter wraps w. A nil w means os.Stdout.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{w: w}
}

// Write implements Writer.
func (s *StreamWriter) Write(doc []byte) error {
	if _, err := s.w.Write(doc); err != nil {
		return fmt.Errorf("writing output stream: %w", err)
	}

	return nil
}

// FileWriter replaces a file with each document. The new content goes to
// a temporary sibling first and is renamed over the target, so readers
// never observe a half written table or graph. Identical content is not
// rewritten, which keeps the file's mtime stable across watch runs.
type FileWriter struct {
	path   string
	mode   os.FileMode
	logger *slog.Logger
}

// FileOption configures a FileWriter.
type FileOption func(*FileWriter)

// WithFileMode sets the permission bits of the written file.
func WithFileMode(mode os.FileMode) FileOption {
	return func(fw *FileWriter) { fw.mode = mode }
}

// WithLogger routes write diagnostics to logger.
func WithLogger(logger *slog.Logger) FileOption {
	return func(fw *FileWriter) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWriter creates a writer for path.
func NewFileWriter(path string, opts ...FileOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		mode:   DefaultFileMode,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Path returns the target file.
func (fw *FileWriter) Path() string { return fw.path }

// Write implements Writer.
func (fw *FileWriter) Write(doc []byte) error {
	if current, err := os.ReadFile(fw.path); err == nil && bytes.Equal(current, doc) {
		fw.logger.Debug("output unchanged", slog.String("path", fw.path))
		return nil
	}

	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}

	if err := tmp.Chmod(fw.mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode of %s: %w", tmp.Name(), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), fw.path); err != nil {
		return fmt.Errorf("replacing %s: %w", fw.path, err)
	}

	committed = true

	fw.logger.Info("output written", slog.String("path", fw.path), slog.Int("bytes", len(doc)))

	return nil
}
