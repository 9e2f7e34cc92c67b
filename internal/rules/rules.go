// Package rules implements the ordered decision chain that turns an inbound
// message into a moderation verdict.
package rules

import (
	"context"
	"fmt"

	"github.com/forPelevin/gomoji"
	"github.com/xaenox/guard-bot/internal/classifier"
	"github.com/xaenox/guard-bot/internal/models"
	"go.uber.org/zap"
)

// emojiThreshold is inclusive: exactly this many emoji triggers the verdict.
const emojiThreshold = 3

// Forward describes where a forwarded message originally came from.
type Forward struct {
	// ChannelID is set when the origin is a channel.
	ChannelID int64
	// FromBot is set when the origin is a bot account.
	FromBot bool
}

// Message carries the facts the chain evaluates.
type Message struct {
	ChatID  int64
	UserID  int64
	Text    string
	Forward *Forward
}

// Roles resolves a member's status in a chat.
type Roles interface {
	MemberRole(chatID, userID int64) (string, error)
}

type Engine struct {
	roles            Roles
	clf              classifier.Classifier
	allowedForwards  map[int64]struct{}
	anonymousAdminID int64
	logger           *zap.Logger
}

func NewEngine(roles Roles, clf classifier.Classifier, allowedForwards []int64, anonymousAdminID int64, logger *zap.Logger) *Engine {
	allowed := make(map[int64]struct{}, len(allowedForwards))
	for _, id := range allowedForwards {
		allowed[id] = struct{}{}
	}
	return &Engine{
		roles:            roles,
		clf:              clf,
		allowedForwards:  allowed,
		anonymousAdminID: anonymousAdminID,
		logger:           logger,
	}
}

// Decide runs the chain in order and returns the first matching reason.
// Every rule before the classifier is pure; a classifier failure aborts the
// evaluation with no verdict rather than silently allowing or blocking.
func (e *Engine) Decide(ctx context.Context, msg Message) (models.Reason, error) {
	if e.isAdmin(msg.ChatID, msg.UserID) {
		return models.ReasonAdminExempt, nil
	}

	if fwd := msg.Forward; fwd != nil {
		if fwd.ChannelID != 0 {
			if _, ok := e.allowedForwards[fwd.ChannelID]; !ok {
				return models.ReasonForward, nil
			}
		} else if fwd.FromBot {
			return models.ReasonForwardBot, nil
		}
	}

	if CountEmojis(msg.Text) >= emojiThreshold {
		return models.ReasonEmojis, nil
	}

	spam, err := e.clf.Classify(ctx, msg.Text)
	if err != nil {
		return models.ReasonNone, fmt.Errorf("classifier failed: %w", err)
	}
	if spam {
		return models.ReasonClassifier, nil
	}

	return models.ReasonNone, nil
}

// isAdmin treats a role-lookup failure as "not an admin": moderation applies
// when the status cannot be confirmed. Anonymous group admins post under a
// sentinel account whose role cannot be looked up per-user, so the sentinel
// itself is exempt.
func (e *Engine) isAdmin(chatID, userID int64) bool {
	if userID == e.anonymousAdminID {
		return true
	}
	role, err := e.roles.MemberRole(chatID, userID)
	if err != nil {
		e.logger.Warn("failed to resolve member role",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int64("user_id", userID))
		return false
	}
	return role == "administrator" || role == "creator"
}

// CountEmojis counts the emoji graphemes in the text.
func CountEmojis(text string) int {
	count := 0
	for _, r := range text {
		if gomoji.ContainsEmoji(string(r)) {
			count++
		}
	}
	return count
}
