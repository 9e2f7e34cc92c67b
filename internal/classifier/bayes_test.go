package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/guard-bot/internal/models"
	"go.uber.org/zap"
)

type memCorpus struct {
	lines []string
	err   error
}

func (m *memCorpus) Append(ctx context.Context, ex models.Example) error {
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, string(ex.Label)+" "+models.CollapseText(ex.Text))
	return nil
}

func (m *memCorpus) Lines(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lines, nil
}

func (m *memCorpus) Close() error { return nil }

func trainingLines() []string {
	return []string{
		"spam купите курс по заработку",
		"spam заработок без вложений пишите в личку",
		"spam крипта инвестиции доход гарантирован",
		"spam срочно нужны люди на удаленную работу",
		"spam доход от 500 долларов в день пишите",
		"ham кто идет завтра на встречу",
		"ham посмотрите какой закат сегодня",
		"ham спасибо за помощь с настройкой",
		"ham завтра созвон в десять утра",
		"ham кинь ссылку на вчерашнюю статью",
		"невалидная строка без метки не считается",
	}
}

func TestBayes_TrainAndClassify(t *testing.T) {
	ctx := context.Background()
	b := NewBayes(&memCorpus{lines: trainingLines()}, 0.2, zap.NewNop())

	accuracy, err := b.Train(ctx, ModeInit)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, accuracy, 0.0)
	assert.LessOrEqual(t, accuracy, 1.0)

	spam, err := b.Classify(ctx, "заработок без вложений, пишите в личку")
	require.NoError(t, err)
	assert.True(t, spam)

	spam, err = b.Classify(ctx, "кто идет завтра на встречу")
	require.NoError(t, err)
	assert.False(t, spam)
}

func TestBayes_UntrainedAllowsEverything(t *testing.T) {
	b := NewBayes(&memCorpus{}, 0.2, zap.NewNop())

	spam, err := b.Classify(context.Background(), "купите курс")
	require.NoError(t, err)
	assert.False(t, spam)
}

func TestBayes_EmptyCorpus(t *testing.T) {
	b := NewBayes(&memCorpus{}, 0.2, zap.NewNop())

	accuracy, err := b.Train(context.Background(), ModeInit)
	require.NoError(t, err)
	assert.Zero(t, accuracy)
}

func TestBayes_CorpusErrorPropagates(t *testing.T) {
	b := NewBayes(&memCorpus{err: errors.New("disk gone")}, 0.2, zap.NewNop())

	_, err := b.Train(context.Background(), ModeRetrain)
	assert.Error(t, err)
}

func TestBayes_RetrainPicksUpNewExamples(t *testing.T) {
	ctx := context.Background()
	corp := &memCorpus{lines: trainingLines()}
	b := NewBayes(corp, 0.2, zap.NewNop())

	_, err := b.Train(ctx, ModeInit)
	require.NoError(t, err)

	// A phrase the model knows nothing about, repeated as ham feedback.
	for i := 0; i < 5; i++ {
		require.NoError(t, corp.Append(ctx, models.Example{Label: models.LabelHam, Text: "обсуждаем квартальный отчет"}))
	}
	_, err = b.Train(ctx, ModeRetrain)
	require.NoError(t, err)

	spam, err := b.Classify(ctx, "обсуждаем квартальный отчет")
	require.NoError(t, err)
	assert.False(t, spam)
}

func TestParseExamples_SkipsMalformedLines(t *testing.T) {
	examples := parseExamples([]string{
		"spam текст",
		"ham другой текст",
		"нет такой метки",
		"spam",
		"",
		"ham   ",
	})
	require.Len(t, examples, 2)
	assert.Equal(t, models.LabelSpam, examples[0].Label)
	assert.Equal(t, "другой текст", examples[1].Text)
}
