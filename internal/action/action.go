// Package action encodes and decodes the callback-button payloads exchanged
// with Telegram. The wire format is a colon-delimited opcode plus arguments;
// Parse is strict and rejects anything it does not recognize, so a malformed
// payload can never mutate state.
package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/guard-bot/internal/models"
)

// Action is a decoded callback payload.
type Action interface {
	isAction()
}

// AddCategory selects a category for a pending submission.
type AddCategory struct {
	Label models.Label
	ID    string
}

// ConfirmAdd persists a pending submission with the chosen category.
type ConfirmAdd struct {
	Label models.Label
	ID    string
}

// CancelAdd discards a pending submission.
type CancelAdd struct {
	ID string
}

// FalsePositive reverts a classifier verdict for the given original message.
type FalsePositive struct {
	MessageID int
}

// Ban blocks the sender associated with the given original message.
type Ban struct {
	MessageID int
}

func (AddCategory) isAction()   {}
func (ConfirmAdd) isAction()    {}
func (CancelAdd) isAction()     {}
func (FalsePositive) isAction() {}
func (Ban) isAction()           {}

func (a AddCategory) Encode() string   { return fmt.Sprintf("add:%s:%s", a.Label, a.ID) }
func (a ConfirmAdd) Encode() string    { return fmt.Sprintf("confirm_add:%s:%s", a.Label, a.ID) }
func (a CancelAdd) Encode() string     { return fmt.Sprintf("cancel_add:%s", a.ID) }
func (a FalsePositive) Encode() string { return fmt.Sprintf("false:%d", a.MessageID) }
func (a Ban) Encode() string           { return fmt.Sprintf("ban:%d", a.MessageID) }

// Parse decodes a callback payload. Unknown opcodes, wrong arity, invalid
// labels and non-numeric message IDs all return an error.
func Parse(data string) (Action, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case "add", "confirm_add":
		if len(parts) != 3 {
			return nil, fmt.Errorf("payload %q: expected 3 fields, got %d", parts[0], len(parts))
		}
		label := models.Label(parts[1])
		if !label.Valid() {
			return nil, fmt.Errorf("payload %q: unknown label %q", parts[0], parts[1])
		}
		if parts[2] == "" {
			return nil, fmt.Errorf("payload %q: empty submission id", parts[0])
		}
		if parts[0] == "add" {
			return AddCategory{Label: label, ID: parts[2]}, nil
		}
		return ConfirmAdd{Label: label, ID: parts[2]}, nil
	case "cancel_add":
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("payload cancel_add: missing submission id")
		}
		return CancelAdd{ID: parts[1]}, nil
	case "false", "ban":
		if len(parts) != 2 {
			return nil, fmt.Errorf("payload %q: expected 2 fields, got %d", parts[0], len(parts))
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("payload %q: bad message id %q", parts[0], parts[1])
		}
		if parts[0] == "false" {
			return FalsePositive{MessageID: id}, nil
		}
		return Ban{MessageID: id}, nil
	default:
		return nil, fmt.Errorf("unknown payload opcode %q", parts[0])
	}
}
