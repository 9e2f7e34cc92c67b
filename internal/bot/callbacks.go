package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/guard-bot/internal/action"
	"github.com/xaenox/guard-bot/internal/classifier"
	"github.com/xaenox/guard-bot/internal/metrics"
	"github.com/xaenox/guard-bot/internal/moderr"
	"github.com/xaenox/guard-bot/internal/models"
	"github.com/xaenox/guard-bot/internal/platform"
	"go.uber.org/zap"
)

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	act, err := action.Parse(callback.Data)
	if err != nil {
		// Fail closed: nothing was looked up, nothing is mutated.
		b.logger.Warn("rejected callback payload", zap.Error(err), zap.String("data", callback.Data))
		b.answer(callback.ID, "❌ Ошибка обработки")
		return
	}

	switch a := act.(type) {
	case action.AddCategory:
		b.handleAddCategory(callback, a)
	case action.ConfirmAdd:
		b.handleConfirmAdd(callback, a)
	case action.CancelAdd:
		b.handleCancelAdd(callback, a)
	case action.FalsePositive:
		b.handleFalsePositive(callback, a)
	case action.Ban:
		b.handleBan(callback, a)
	}
}

// handleAddCategory re-renders the submission as a confirmation prompt. The
// store entry is untouched: the chosen category travels in the button
// payload until the moderator confirms.
func (b *Bot) handleAddCategory(callback *tgbotapi.CallbackQuery, a action.AddCategory) {
	sub, ok := b.pending.Get(a.ID)
	if !ok {
		b.answer(callback.ID, "❌ Сообщение не найдено")
		return
	}

	kb := platform.Keyboard{platform.Row(
		platform.Button{Text: "✅ Подтвердить", Data: action.ConfirmAdd{Label: a.Label, ID: a.ID}.Encode()},
		platform.Button{Text: "❌ Отменить", Data: action.CancelAdd{ID: a.ID}.Encode()},
	)}

	text := fmt.Sprintf("Вы уверены, что хотите добавить это сообщение как %s?\n\n<blockquote>%s</blockquote>",
		strings.ToUpper(string(a.Label)), html.EscapeString(sub.Text))

	if err := b.gw.EditMessage(callback.Message.Chat.ID, callback.Message.MessageID, text, kb); err != nil {
		b.logger.Error("failed to edit add prompt", zap.Error(err), zap.String("submission_id", a.ID))
	}
	b.answer(callback.ID, "")
}

func (b *Bot) handleConfirmAdd(callback *tgbotapi.CallbackQuery, a action.ConfirmAdd) {
	ctx := context.Background()

	sub, ok := b.pending.TakeIfPresent(a.ID)
	if !ok {
		b.answer(callback.ID, "❌ Сообщение не найдено")
		return
	}

	if err := b.corpus.Append(ctx, models.Example{Label: a.Label, Text: sub.Text}); err != nil {
		// The entry goes back so the moderator can retry; the identifier
		// is only consumed by a fully successful confirmation.
		b.pending.Put(sub)
		b.logger.Error("failed to append training example", zap.Error(err), zap.String("submission_id", a.ID))
		b.answer(callback.ID, "❌ Ошибка сохранения")
		return
	}

	accuracy, err := b.retrain(ctx)
	if err != nil {
		b.answer(callback.ID, "❌ Ошибка обучения")
		return
	}

	text := fmt.Sprintf("✅ Сообщение добавлено как %s\n\n<blockquote>%s</blockquote>\n<b>Тестовая точность: %.0f%%</b>",
		a.Label, html.EscapeString(sub.Text), accuracy*100)
	if err := b.gw.EditMessage(callback.Message.Chat.ID, callback.Message.MessageID, text, nil); err != nil {
		b.logger.Error("failed to edit confirmation", zap.Error(err), zap.String("submission_id", a.ID))
	}
	b.answer(callback.ID, "")
}

// handleCancelAdd removes the entry unconditionally and deletes the prompt.
// A stale identifier is not an error here: the outcome is the same.
func (b *Bot) handleCancelAdd(callback *tgbotapi.CallbackQuery, a action.CancelAdd) {
	b.pending.TakeIfPresent(a.ID)

	if err := b.gw.DeleteMessage(callback.Message.Chat.ID, callback.Message.MessageID); err != nil {
		b.logger.Error("failed to delete add prompt", zap.Error(err), zap.String("submission_id", a.ID))
	}
	b.answer(callback.ID, "Добавление отменено")
}

func (b *Bot) handleFalsePositive(callback *tgbotapi.CallbackQuery, a action.FalsePositive) {
	ctx := context.Background()

	sess, ok := b.sessions.TakeIfPresent(a.MessageID)
	if !ok {
		b.answer(callback.ID, "❌ Сообщение не найдено")
		return
	}

	if err := b.corpus.Append(ctx, models.Example{Label: models.LabelHam, Text: sess.Text}); err != nil {
		b.sessions.Put(sess)
		b.logger.Error("failed to append training example",
			zap.Error(err),
			zap.Int("message_id", a.MessageID))
		b.answer(callback.ID, "❌ Ошибка сохранения")
		return
	}

	accuracy, err := b.retrain(ctx)
	if err != nil {
		b.answer(callback.ID, "❌ Ошибка обучения")
		return
	}

	text := fmt.Sprintf("✅ Ложное срабатывание исправлено\n\n<blockquote>%s</blockquote>\n<b>Новая точность: %.0f%%</b>",
		html.EscapeString(sess.Text), accuracy*100)
	if err := b.gw.EditMessage(b.journalChatID, sess.LogMessageID, text, nil); err != nil {
		b.logger.Error("failed to edit journal entry",
			zap.Error(err),
			zap.Int("log_message_id", sess.LogMessageID))
	}
	b.answer(callback.ID, "")
}

func (b *Bot) handleBan(callback *tgbotapi.CallbackQuery, a action.Ban) {
	sess, ok := b.sessions.TakeIfPresent(a.MessageID)
	if !ok {
		b.answer(callback.ID, "❌ Сообщение не найдено")
		return
	}

	if err := b.gw.BanMember(sess.ChatID, sess.UserID); err != nil {
		// The session goes back untouched, as does the journal entry; the
		// moderator only gets an ephemeral notice.
		b.sessions.Put(sess)
		metrics.RemediationFailures.WithLabelValues("ban").Inc()
		if errors.Is(err, moderr.ErrPermissionDenied) {
			b.answer(callback.ID, "❌ Нет прав для блокировки")
			return
		}
		b.logger.Error("failed to ban member",
			zap.Error(err),
			zap.Int64("chat_id", sess.ChatID),
			zap.Int64("user_id", sess.UserID))
		b.answer(callback.ID, "❌ Ошибка блокировки")
		return
	}

	text := fmt.Sprintf(
		"🚫 Пользователь <b>%s</b> заблокирован\n"+
			"👮‍♂️ Модератор: <a href='tg://user?id=%d'>%s</a>\n"+
			"📝 Причина: %s",
		html.EscapeString(sess.UserName),
		callback.From.ID, html.EscapeString(fullName(callback.From)),
		sess.Reason.Description())
	if err := b.gw.EditMessage(b.journalChatID, sess.LogMessageID, text, nil); err != nil {
		b.logger.Error("failed to edit journal entry",
			zap.Error(err),
			zap.Int("log_message_id", sess.LogMessageID))
	}
	b.answer(callback.ID, "Пользователь заблокирован")
}

func (b *Bot) retrain(ctx context.Context) (float64, error) {
	accuracy, err := b.clf.Train(ctx, classifier.ModeRetrain)
	if err != nil {
		b.logger.Error("failed to retrain classifier", zap.Error(err))
		return 0, err
	}
	metrics.RetrainsTotal.Inc()
	return accuracy, nil
}
