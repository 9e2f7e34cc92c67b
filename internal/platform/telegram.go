package platform

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/guard-bot/internal/moderr"
)

// Telegram implements Gateway over the Bot API.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Telegram{api: api}, nil
}

// UpdatesChan starts long polling and returns the update stream.
func (t *Telegram) UpdatesChan() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return t.api.GetUpdatesChan(u)
}

// Stop terminates long polling, which closes the updates channel.
func (t *Telegram) Stop() {
	t.api.StopReceivingUpdates()
}

func (t *Telegram) SendMessage(chatID int64, html string, kb Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = toMarkup(kb)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, wrapError(err)
	}
	return sent.MessageID, nil
}

func (t *Telegram) SendReply(chatID int64, replyTo int, html string, kb Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, html)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyToMessageID = replyTo
	if kb != nil {
		msg.ReplyMarkup = toMarkup(kb)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, wrapError(err)
	}
	return sent.MessageID, nil
}

func (t *Telegram) EditMessage(chatID int64, messageID int, html string, kb Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, html)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		markup := toMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := t.api.Send(edit); err != nil {
		return wrapError(err)
	}
	return nil
}

func (t *Telegram) DeleteMessage(chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return wrapError(err)
	}
	return nil
}

func (t *Telegram) AnswerCallback(callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return wrapError(err)
	}
	return nil
}

func (t *Telegram) BanMember(chatID, userID int64) error {
	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
	}
	if _, err := t.api.Request(cfg); err != nil {
		return wrapError(err)
	}
	return nil
}

func (t *Telegram) MemberRole(chatID, userID int64) (string, error) {
	member, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", wrapError(err)
	}
	return member.Status, nil
}

func toMarkup(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// wrapError maps rights failures onto moderr.ErrPermissionDenied. Telegram
// reports them either as HTTP 403 or as a 400 with a rights-related message.
func wrapError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		if apiErr.Code == 403 ||
			strings.Contains(msg, "not enough rights") ||
			strings.Contains(msg, "can't be deleted") {
			return fmt.Errorf("%s: %w", apiErr.Message, moderr.ErrPermissionDenied)
		}
	}
	return err
}
