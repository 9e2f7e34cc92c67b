package bot

import (
	"context"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/xaenox/guard-bot/internal/action"
	"github.com/xaenox/guard-bot/internal/classifier"
	"github.com/xaenox/guard-bot/internal/corpus"
	"github.com/xaenox/guard-bot/internal/metrics"
	"github.com/xaenox/guard-bot/internal/models"
	"github.com/xaenox/guard-bot/internal/platform"
	"github.com/xaenox/guard-bot/internal/rules"
	"github.com/xaenox/guard-bot/internal/store"
	"go.uber.org/zap"
)

type Bot struct {
	gw       platform.Gateway
	clf      classifier.Classifier
	corpus   corpus.Corpus
	engine   *rules.Engine
	sessions *store.SessionStore
	pending  *store.PendingStore
	logger   *zap.Logger

	moderated     map[int64]struct{}
	journalChatID int64
	warnTTL       time.Duration

	// schedule runs f after d without blocking the caller; replaced in
	// tests to make the deferred warning removal observable.
	schedule func(d time.Duration, f func())
}

type Options struct {
	Gateway          platform.Gateway
	Classifier       classifier.Classifier
	Corpus           corpus.Corpus
	Sessions         *store.SessionStore
	Pending          *store.PendingStore
	Logger           *zap.Logger
	ModeratedChats   []int64
	JournalChatID    int64
	AllowedForwards  []int64
	AnonymousAdminID int64
	WarningTTL       time.Duration
}

func New(opts Options) *Bot {
	moderated := make(map[int64]struct{}, len(opts.ModeratedChats))
	for _, id := range opts.ModeratedChats {
		moderated[id] = struct{}{}
	}

	return &Bot{
		gw:            opts.Gateway,
		clf:           opts.Classifier,
		corpus:        opts.Corpus,
		engine:        rules.NewEngine(opts.Gateway, opts.Classifier, opts.AllowedForwards, opts.AnonymousAdminID, opts.Logger),
		sessions:      opts.Sessions,
		pending:       opts.Pending,
		logger:        opts.Logger,
		moderated:     moderated,
		journalChatID: opts.JournalChatID,
		warnTTL:       opts.WarningTTL,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Run dispatches updates until the channel closes. Each update is handled in
// its own goroutine; the stores guard their own state, so lookup-and-remove
// stays at-most-once under concurrent button presses.
func (b *Bot) Run(updates <-chan tgbotapi.Update) {
	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			go b.handleCallback(update.CallbackQuery)
		case update.Message != nil:
			go b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(message)
			return
		case "add":
			b.handleAdd(message)
			return
		}
		// Other commands fall through to moderation like any message.
	}

	if _, ok := b.moderated[message.Chat.ID]; !ok {
		return
	}
	if message.From == nil {
		return
	}

	reason, err := b.engine.Decide(ctx, ruleMessage(message))
	if err != nil {
		// No verdict: the classifier failed, so neither allow nor block
		// is recorded and the message stays put.
		b.logger.Error("failed to evaluate message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int("message_id", message.MessageID))
		return
	}

	if reason.Spam() {
		metrics.VerdictsTotal.WithLabelValues(string(reason)).Inc()
		b.remediate(message, reason)
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}
	if _, err := b.gw.SendReply(message.Chat.ID, message.MessageID,
		"❌ Бот не предназначен для работы в личных сообщениях!", nil); err != nil {
		b.logger.Error("failed to send start reply", zap.Error(err), zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleAdd(message *tgbotapi.Message) {
	if message.Chat.ID != b.journalChatID {
		b.reply(message, "❌ Нет доступа")
		return
	}

	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		b.reply(message, "❌ Укажите текст сообщения")
		return
	}

	sub := models.PendingSubmission{
		ID:        uuid.New().String(),
		Text:      models.CollapseText(args),
		CreatedAt: time.Now(),
	}
	b.pending.Put(sub)

	kb := platform.Keyboard{platform.Row(
		platform.Button{Text: "Спам", Data: action.AddCategory{Label: models.LabelSpam, ID: sub.ID}.Encode()},
		platform.Button{Text: "Не спам", Data: action.AddCategory{Label: models.LabelHam, ID: sub.ID}.Encode()},
	)}

	text := "<b>Выберите тип сообщения</b>\n\n<blockquote>" + html.EscapeString(args) + "</blockquote>" +
		"\n\nHAM - не спам, SPAM - спам"
	if _, err := b.gw.SendReply(message.Chat.ID, message.MessageID, text, kb); err != nil {
		b.logger.Error("failed to send add prompt", zap.Error(err), zap.String("submission_id", sub.ID))
	}
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	if _, err := b.gw.SendReply(message.Chat.ID, message.MessageID, text, nil); err != nil {
		b.logger.Error("failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) answer(callbackID, text string) {
	if err := b.gw.AnswerCallback(callbackID, text); err != nil {
		b.logger.Error("failed to answer callback", zap.Error(err))
	}
}

// ruleMessage extracts the facts the rule chain needs from a Telegram message.
func ruleMessage(message *tgbotapi.Message) rules.Message {
	msg := rules.Message{
		ChatID: message.Chat.ID,
		UserID: message.From.ID,
		Text:   messageContent(message),
	}
	switch {
	case message.ForwardFromChat != nil && message.ForwardFromChat.IsChannel():
		msg.Forward = &rules.Forward{ChannelID: message.ForwardFromChat.ID}
	case message.ForwardFrom != nil:
		msg.Forward = &rules.Forward{FromBot: message.ForwardFrom.IsBot}
	}
	return msg
}

// messageContent returns the text or caption of a message.
func messageContent(message *tgbotapi.Message) string {
	if message.Text != "" {
		return message.Text
	}
	if message.Caption != "" {
		return message.Caption
	}
	return "текст сообщения отсутствует"
}

func fullName(user *tgbotapi.User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
