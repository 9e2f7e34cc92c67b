// Package platform wraps the Telegram transport behind the small set of
// operations the moderation pipeline needs, so handlers can be tested
// against a fake and API errors map onto the moderr taxonomy.
package platform

// Button is one inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Keyboard is rows of inline buttons. Nil means no keyboard.
type Keyboard [][]Button

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// Gateway is the abstract messaging platform. Send and edit operations take
// HTML-formatted text. Errors wrap moderr.ErrPermissionDenied when the
// platform refuses for lack of rights; anything else is an opaque platform
// failure.
type Gateway interface {
	// SendMessage posts to a chat and returns the new message ID.
	SendMessage(chatID int64, html string, kb Keyboard) (int, error)
	// SendReply posts a reply to an existing message.
	SendReply(chatID int64, replyTo int, html string, kb Keyboard) (int, error)
	// EditMessage replaces the text and keyboard of an existing message.
	EditMessage(chatID int64, messageID int, html string, kb Keyboard) error
	// DeleteMessage removes a message.
	DeleteMessage(chatID int64, messageID int) error
	// AnswerCallback acknowledges a button press with an ephemeral notice.
	AnswerCallback(callbackID, text string) error
	// BanMember permanently bans a chat member.
	BanMember(chatID, userID int64) error
	// MemberRole returns the member's status in the chat.
	MemberRole(chatID, userID int64) (string, error)
}
