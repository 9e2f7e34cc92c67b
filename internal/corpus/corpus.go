// Package corpus stores the labeled training examples the classifier learns
// from. The corpus is append-only: examples are never edited or removed.
package corpus

import (
	"context"

	"github.com/xaenox/guard-bot/internal/models"
)

// Corpus is an append-only collection of training examples. Lines returns
// the full corpus in its canonical line form, "<label> <text>", for the
// trainer to read back.
type Corpus interface {
	Append(ctx context.Context, ex models.Example) error
	Lines(ctx context.Context) ([]string, error)
	Close() error
}
