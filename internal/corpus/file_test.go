package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/guard-bot/internal/models"
)

func TestFileCorpus_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dataset.txt")
	c := NewFileCorpus(path)

	require.NoError(t, c.Append(ctx, models.Example{Label: models.LabelSpam, Text: "купите курс"}))
	require.NoError(t, c.Append(ctx, models.Example{Label: models.LabelHam, Text: "привет всем"}))

	lines, err := c.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam купите курс", "ham привет всем"}, lines)
}

func TestFileCorpus_CollapsesNewlines(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dataset.txt")
	c := NewFileCorpus(path)

	require.NoError(t, c.Append(ctx, models.Example{Label: models.LabelHam, Text: "first\nsecond\r\nthird"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ham first second third\n", string(data))
}

func TestFileCorpus_RejectsInvalidLabel(t *testing.T) {
	c := NewFileCorpus(filepath.Join(t.TempDir(), "dataset.txt"))

	err := c.Append(context.Background(), models.Example{Label: "junk", Text: "text"})
	assert.Error(t, err)
}

func TestFileCorpus_MissingFileIsEmpty(t *testing.T) {
	c := NewFileCorpus(filepath.Join(t.TempDir(), "nope.txt"))

	lines, err := c.Lines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}
