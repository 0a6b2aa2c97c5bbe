package split

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	cfg := models.DefaultIndexConfig()
	cfg.Input = storage.Stdin
	cfg.ChunkSize = 14
	cfg.Format = models.FormatJSON

	var buf bytes.Buffer
	st := storage.New(strings.NewReader("cat sat\non the\nMAT with\na cat"))
	require.NoError(t, Run(context.Background(), cfg, st, &buf, slog.New(slog.DiscardHandler)))

	var out models.SplitOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 29, out.Bytes)
	assert.Equal(t, []models.ChunkInfo{
		{ID: 0, Start: 0, End: 14, Bytes: 14, Lines: 2},
		{ID: 1, Start: 14, End: 29, Bytes: 15, Lines: 3},
	}, out.Chunks)
}

func TestRun_Text(t *testing.T) {
	cfg := models.DefaultIndexConfig()
	cfg.Input = storage.Stdin

	var buf bytes.Buffer
	st := storage.New(strings.NewReader("one two"))
	require.NoError(t, Run(context.Background(), cfg, st, &buf, slog.New(slog.DiscardHandler)))
	assert.Contains(t, buf.String(), "7 bytes in 1 chunks")
}

func TestRun_BadChunkSize(t *testing.T) {
	cfg := models.DefaultIndexConfig()
	cfg.Input = storage.Stdin
	cfg.ChunkSize = -1

	err := Run(context.Background(), cfg, storage.New(strings.NewReader("x")), &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.True(t, errors.Is(err, chunker.ErrInvalidChunkSize))
}

func TestRun_Suggest(t *testing.T) {
	cfg := models.DefaultIndexConfig()
	cfg.Input = storage.Stdin
	cfg.Suggest = 2
	cfg.Format = models.FormatJSON

	var buf bytes.Buffer
	st := storage.New(strings.NewReader("the cat and the dog and the cat"))
	require.NoError(t, Run(context.Background(), cfg, st, &buf, slog.New(slog.DiscardHandler)))

	var out models.SplitOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []string{"CAT", "DOG"}, out.Suggested)
}
