package classifier

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/guard-bot/internal/corpus"
	"github.com/xaenox/guard-bot/internal/models"
	"go.uber.org/zap"
)

const spamPrompt = `You are a spam filter for a Russian-language Telegram group.
Decide whether the following message is spam (unsolicited advertising, scams,
crypto shilling, job-bait, link farming) or a normal chat message.
Reply with exactly one word: spam or ham.

Message: %s`

// GPT classifies messages with an OpenAI chat model. The remote model is not
// retrained; Train estimates accuracy by scoring a sample of recent corpus
// examples against the model.
type GPT struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	corpus      corpus.Corpus
	evalSample  int
	logger      *zap.Logger

	mu       sync.Mutex
	accuracy float64
}

func NewGPT(apiKey, model string, maxTokens int, temperature float64, c corpus.Corpus, evalSample int, logger *zap.Logger) *GPT {
	if evalSample <= 0 {
		evalSample = 20
	}
	return &GPT{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		corpus:      c,
		evalSample:  evalSample,
		logger:      logger,
	}
}

func (g *GPT) Classify(ctx context.Context, text string) (bool, error) {
	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(spamPrompt, text),
				},
			},
			MaxTokens:   g.maxTokens,
			Temperature: float32(g.temperature),
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to get completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, fmt.Errorf("completion returned no choices")
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	return strings.HasPrefix(answer, "spam"), nil
}

// Train scores up to evalSample of the most recent corpus examples. ModeInit
// skips the evaluation: there is nothing to load for a remote model, and
// burning API calls at every restart buys nothing.
func (g *GPT) Train(ctx context.Context, mode Mode) (float64, error) {
	if mode == ModeInit {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.accuracy, nil
	}

	lines, err := g.corpus.Lines(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus: %w", err)
	}
	examples := parseExamples(lines)
	if len(examples) > g.evalSample {
		examples = examples[len(examples)-g.evalSample:]
	}
	if len(examples) == 0 {
		return 0, nil
	}

	correct := 0
	for _, ex := range examples {
		spam, err := g.Classify(ctx, ex.Text)
		if err != nil {
			return 0, fmt.Errorf("failed to evaluate example: %w", err)
		}
		if spam == (ex.Label == models.LabelSpam) {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(examples))

	g.mu.Lock()
	g.accuracy = accuracy
	g.mu.Unlock()

	g.logger.Info("classifier evaluated",
		zap.Int("examples", len(examples)),
		zap.Float64("accuracy", accuracy))
	return accuracy, nil
}
