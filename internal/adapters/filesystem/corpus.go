// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/frontdesk/internal/ports/secondary"
)

// CorpusFile implements secondary.CorpusStore over a plain text file.
// Appends from concurrent publications are serialized.
type CorpusFile struct {
	mu   sync.Mutex
	path string
}

// NewCorpusFile creates a corpus adapter for path.
func NewCorpusFile(path string) *CorpusFile {
	return &CorpusFile{path: path}
}

// Path returns the corpus file location.
func (c *CorpusFile) Path() string {
	return c.path
}

// Read returns the full corpus text. A missing file reads as empty.
func (c *CorpusFile) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read corpus %s: %w", c.path, err)
	}
	return string(data), nil
}

// Append adds text to the end of the corpus, creating the file if needed.
func (c *CorpusFile) Append(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create corpus directory: %w", err)
		}
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open corpus %s: %w", c.path, err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to corpus: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close corpus: %w", err)
	}
	return nil
}

var _ secondary.CorpusStore = (*CorpusFile)(nil)
