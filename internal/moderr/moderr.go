// Package moderr defines the error taxonomy shared by the moderation
// pipeline. Callers branch on these sentinels with errors.Is to decide the
// user-visible outcome; none of them is fatal to the process.
package moderr

import "errors"

var (
	// ErrPermissionDenied means the platform refused an action (delete,
	// ban) because the bot lacks the required rights.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound means a session or pending-submission identifier no
	// longer resolves: already consumed, or never existed.
	ErrNotFound = errors.New("not found")
)
