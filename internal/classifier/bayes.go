package classifier

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/xaenox/guard-bot/internal/corpus"
	"github.com/xaenox/guard-bot/internal/models"
	"go.uber.org/zap"
)

// Bayes is a multinomial naive Bayes classifier trained from the corpus.
// Train re-reads the whole corpus, estimates accuracy on a holdout slice and
// then refits on everything.
type Bayes struct {
	corpus  corpus.Corpus
	holdout float64
	logger  *zap.Logger

	mu    sync.RWMutex
	model *bayesModel
}

type bayesModel struct {
	wordCounts map[models.Label]map[string]int
	totalWords map[models.Label]int
	docCounts  map[models.Label]int
	totalDocs  int
	vocab      map[string]struct{}
}

func NewBayes(c corpus.Corpus, holdout float64, logger *zap.Logger) *Bayes {
	if holdout <= 0 || holdout >= 1 {
		holdout = 0.2
	}
	return &Bayes{
		corpus:  c,
		holdout: holdout,
		logger:  logger,
	}
}

func (b *Bayes) Train(ctx context.Context, mode Mode) (float64, error) {
	lines, err := b.corpus.Lines(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus: %w", err)
	}

	examples := parseExamples(lines)
	if len(examples) == 0 {
		b.logger.Warn("training corpus is empty, classifier will allow everything")
		b.mu.Lock()
		b.model = nil
		b.mu.Unlock()
		return 0, nil
	}

	// Holdout accuracy: fit on the head of the corpus, score the tail. Too
	// few examples for a meaningful split means scoring the training set
	// itself, which overestimates but stays well-defined.
	cut := len(examples)
	if len(examples) >= 10 {
		cut = len(examples) - int(float64(len(examples))*b.holdout)
	}
	eval := examples[cut:]
	if len(eval) == 0 {
		eval = examples
	}

	trained := fit(examples[:cut])
	correct := 0
	for _, ex := range eval {
		if trained.classify(ex.Text) == (ex.Label == models.LabelSpam) {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(eval))

	// The serving model uses every example, not just the training split.
	full := fit(examples)
	b.mu.Lock()
	b.model = full
	b.mu.Unlock()

	b.logger.Info("classifier trained",
		zap.String("mode", string(mode)),
		zap.Int("examples", len(examples)),
		zap.Float64("accuracy", accuracy))
	return accuracy, nil
}

func (b *Bayes) Classify(ctx context.Context, text string) (bool, error) {
	b.mu.RLock()
	model := b.model
	b.mu.RUnlock()

	if model == nil {
		return false, nil
	}
	return model.classify(text), nil
}

func parseExamples(lines []string) []models.Example {
	examples := make([]models.Example, 0, len(lines))
	for _, line := range lines {
		label, text, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		l := models.Label(label)
		if !l.Valid() || strings.TrimSpace(text) == "" {
			continue
		}
		examples = append(examples, models.Example{Label: l, Text: text})
	}
	return examples
}

func fit(examples []models.Example) *bayesModel {
	m := &bayesModel{
		wordCounts: map[models.Label]map[string]int{
			models.LabelSpam: {},
			models.LabelHam:  {},
		},
		totalWords: map[models.Label]int{},
		docCounts:  map[models.Label]int{},
		vocab:      map[string]struct{}{},
	}
	for _, ex := range examples {
		m.docCounts[ex.Label]++
		m.totalDocs++
		for _, tok := range tokenize(ex.Text) {
			m.wordCounts[ex.Label][tok]++
			m.totalWords[ex.Label]++
			m.vocab[tok] = struct{}{}
		}
	}
	return m
}

// classify scores the text against both classes with Laplace smoothing and
// reports whether spam wins. A corpus with only one class always predicts
// that class.
func (m *bayesModel) classify(text string) bool {
	if m.docCounts[models.LabelSpam] == 0 {
		return false
	}
	if m.docCounts[models.LabelHam] == 0 {
		return true
	}

	tokens := tokenize(text)
	vocabSize := float64(len(m.vocab))

	score := func(label models.Label) float64 {
		s := math.Log(float64(m.docCounts[label]) / float64(m.totalDocs))
		denom := float64(m.totalWords[label]) + vocabSize
		for _, tok := range tokens {
			s += math.Log((float64(m.wordCounts[label][tok]) + 1) / denom)
		}
		return s
	}

	return score(models.LabelSpam) > score(models.LabelHam)
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]«»")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
