package bot

import (
	"errors"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/guard-bot/internal/action"
	"github.com/xaenox/guard-bot/internal/metrics"
	"github.com/xaenox/guard-bot/internal/moderr"
	"github.com/xaenox/guard-bot/internal/models"
	"github.com/xaenox/guard-bot/internal/platform"
	"go.uber.org/zap"
)

// remediate executes the verdict: delete the message, warn the chat, journal
// the action. A failed deletion aborts everything after it — a journal entry
// for a message that is still standing would only mislead the moderators.
func (b *Bot) remediate(message *tgbotapi.Message, reason models.Reason) {
	if err := b.gw.DeleteMessage(message.Chat.ID, message.MessageID); err != nil {
		metrics.RemediationFailures.WithLabelValues("delete").Inc()
		if errors.Is(err, moderr.ErrPermissionDenied) {
			b.logger.Error("no rights to delete message",
				zap.Int64("chat_id", message.Chat.ID),
				zap.Int("message_id", message.MessageID))
		} else {
			b.logger.Error("failed to delete message",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID),
				zap.Int("message_id", message.MessageID))
		}
		return
	}

	b.warnSender(message, reason)
	b.journal(message, reason)
}

// warnSender posts a transient notice to the origin chat and schedules its
// removal. The handler does not wait for the removal.
func (b *Bot) warnSender(message *tgbotapi.Message, reason models.Reason) {
	text := fmt.Sprintf("<b>%s</b>, ваше сообщение удалено по причине:\n⚠️ %s",
		html.EscapeString(fullName(message.From)), reason.Description())

	chatID := message.Chat.ID
	warnID, err := b.gw.SendMessage(chatID, text, nil)
	if err != nil {
		metrics.RemediationFailures.WithLabelValues("warn").Inc()
		b.logger.Error("failed to send warning", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}

	b.schedule(b.warnTTL, func() {
		if err := b.gw.DeleteMessage(chatID, warnID); err != nil {
			b.logger.Error("failed to delete warning",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", warnID))
		}
	})
}

// journal sends the audit entry and, only when that succeeds, opens the
// session that later moderator actions resolve against.
func (b *Bot) journal(message *tgbotapi.Message, reason models.Reason) {
	content := messageContent(message)
	text := fmt.Sprintf(
		"🚫 Удалено сообщение от <b>%s</b>\n"+
			"👤 Пользователь: <a href='tg://user?id=%d'>%d</a>\n"+
			"📝 Причина: %s\n\n"+
			"<blockquote>%s</blockquote>",
		html.EscapeString(fullName(message.From)),
		message.From.ID, message.From.ID,
		reason.Description(),
		html.EscapeString(content))

	var row []platform.Button
	if reason == models.ReasonClassifier {
		row = append(row, platform.Button{
			Text: "❗️ Ложное срабатывание",
			Data: action.FalsePositive{MessageID: message.MessageID}.Encode(),
		})
	}
	row = append(row, platform.Button{
		Text: "⛔️ Забанить",
		Data: action.Ban{MessageID: message.MessageID}.Encode(),
	})

	logID, err := b.gw.SendMessage(b.journalChatID, text, platform.Keyboard{row})
	if err != nil {
		metrics.RemediationFailures.WithLabelValues("audit").Inc()
		b.logger.Error("failed to send journal entry",
			zap.Error(err),
			zap.Int("message_id", message.MessageID))
		return
	}

	b.sessions.Put(models.Session{
		MessageID:    message.MessageID,
		ChatID:       message.Chat.ID,
		UserID:       message.From.ID,
		UserName:     fullName(message.From),
		Text:         content,
		LogMessageID: logID,
		Reason:       reason,
	})
}
