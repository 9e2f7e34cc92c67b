package models

import (
	"strings"
	"time"
)

// Reason is the cause of a moderation verdict.
type Reason string

const (
	// ReasonNone means the message passed every check.
	ReasonNone Reason = ""
	// ReasonAdminExempt is a short-circuit, not a verdict: the sender is a
	// chat administrator and the message is always allowed.
	ReasonAdminExempt Reason = "admin_exempt"
	ReasonForward     Reason = "forward"
	ReasonForwardBot  Reason = "forward_bot"
	ReasonEmojis      Reason = "emojis"
	ReasonClassifier  Reason = "classify"
)

var reasonDescriptions = map[Reason]string{
	ReasonForward:    "пересылка из неразрешенного источника",
	ReasonForwardBot: "пересылка от бота",
	ReasonEmojis:     "слишком много эмодзи",
	ReasonClassifier: "распознано как спам",
}

// Description returns the human-readable cause shown to users and in the
// journal. Unknown values fall back to a generic description.
func (r Reason) Description() string {
	if d, ok := reasonDescriptions[r]; ok {
		return d
	}
	return "нарушение правил чата"
}

// Spam reports whether the reason is an actionable verdict.
func (r Reason) Spam() bool {
	switch r {
	case ReasonForward, ReasonForwardBot, ReasonEmojis, ReasonClassifier:
		return true
	}
	return false
}

// Session correlates a remediated message with its journal entry so that
// later moderator actions (false-positive correction, ban) can find it.
type Session struct {
	MessageID    int
	ChatID       int64
	UserID       int64
	UserName     string
	Text         string
	LogMessageID int
	Reason       Reason
}

// PendingSubmission is a moderator-supplied training text awaiting a
// category choice and confirmation.
type PendingSubmission struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Label classifies a training example.
type Label string

const (
	LabelSpam Label = "spam"
	LabelHam  Label = "ham"
)

// Valid reports whether the label is one of the two known values.
func (l Label) Valid() bool {
	return l == LabelSpam || l == LabelHam
}

// Example is a labeled text appended to the training corpus.
type Example struct {
	Label Label
	Text  string
}

// CollapseText normalizes free text into the single-line form stored in the
// corpus: embedded newlines become spaces, surrounding whitespace is trimmed.
func CollapseText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
