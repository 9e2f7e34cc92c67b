package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonDescription(t *testing.T) {
	assert.Equal(t, "пересылка из неразрешенного источника", ReasonForward.Description())
	assert.Equal(t, "пересылка от бота", ReasonForwardBot.Description())
	assert.Equal(t, "слишком много эмодзи", ReasonEmojis.Description())
	assert.Equal(t, "распознано как спам", ReasonClassifier.Description())

	// Unknown values fall back to the generic description.
	assert.Equal(t, "нарушение правил чата", Reason("mystery").Description())
	assert.Equal(t, "нарушение правил чата", ReasonNone.Description())
}

func TestReasonSpam(t *testing.T) {
	assert.False(t, ReasonNone.Spam())
	assert.False(t, ReasonAdminExempt.Spam())
	for _, r := range []Reason{ReasonForward, ReasonForwardBot, ReasonEmojis, ReasonClassifier} {
		assert.True(t, r.Spam(), string(r))
	}
}

func TestLabelValid(t *testing.T) {
	assert.True(t, LabelSpam.Valid())
	assert.True(t, LabelHam.Valid())
	assert.False(t, Label("junk").Valid())
	assert.False(t, Label("").Valid())
}

func TestCollapseText(t *testing.T) {
	assert.Equal(t, "a b c", CollapseText("a\nb\r\nc"))
	assert.Equal(t, "trimmed", CollapseText("  trimmed \n"))
	assert.Equal(t, "", CollapseText("\n\n"))
}
