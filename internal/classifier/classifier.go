// Package classifier provides the spam-detection capability consumed by the
// rule chain and retrained from moderator feedback.
package classifier

import "context"

// Mode selects what Train does.
type Mode string

const (
	// ModeInit is the startup load of the existing corpus.
	ModeInit Mode = "init"
	// ModeRetrain incorporates newly appended examples.
	ModeRetrain Mode = "retrain"
)

// Classifier is the text-classification capability. Classify reports whether
// the text is spam; Train returns the resulting accuracy estimate in [0, 1].
// Both may perform I/O and fail; callers treat errors as aborting the
// operation rather than as a verdict.
type Classifier interface {
	Classify(ctx context.Context, text string) (bool, error)
	Train(ctx context.Context, mode Mode) (float64, error)
}
