package corpus

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xaenox/guard-bot/internal/models"
)

// FileCorpus appends examples to a plain-text dataset file, one
// "<label> <text>" record per line.
type FileCorpus struct {
	mu   sync.Mutex
	path string
}

func NewFileCorpus(path string) *FileCorpus {
	return &FileCorpus{path: path}
}

func (c *FileCorpus) Append(ctx context.Context, ex models.Example) error {
	if !ex.Label.Valid() {
		return fmt.Errorf("invalid label %q", ex.Label)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	// The corpus is line-oriented, so embedded newlines are collapsed here
	// rather than trusted to be absent upstream.
	line := fmt.Sprintf("%s %s\n", ex.Label, models.CollapseText(ex.Text))
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to corpus file: %w", err)
	}
	return nil
}

func (c *FileCorpus) Lines(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return lines, nil
}

func (c *FileCorpus) Close() error {
	// Nothing to close; the file is opened per operation.
	return nil
}
