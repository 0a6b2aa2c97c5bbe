package index

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/line-index/internal/common"
	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/analytics"
	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/lineindex"
	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/matcher"
	"github.com/dtnitsch/line-index/pkg/storage"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// Flags returns the flags of the index command.
func Flags() []cli.Flag {
	def := models.DefaultIndexConfig()
	return append(common.InputFlags(),
		&cli.StringSliceFlag{Name: "words", Aliases: []string{"w"}, Usage: "query words, comma separated or repeated"},
		&cli.StringFlag{Name: "words-file", Usage: "file of query words, one or more per line"},
		&cli.BoolFlag{Name: "skip-stopwords", Usage: "drop common English words from the query list"},
		&cli.IntFlag{Name: "workers", Value: def.Workers, Usage: "concurrent map and reduce tasks"},
		&cli.IntFlag{Name: "partitions", Value: def.Partitions, Usage: "reduce partitions"},
		&cli.BoolFlag{Name: "combine", Value: def.Combine, Usage: "merge each chunk's output before the shuffle"},
		&cli.IntFlag{Name: "reduce-batch", Usage: "reduce values in batches of this size (0 = all at once)"},
		&cli.StringFlag{Name: "store", Value: def.Store, Usage: "intermediate store: memory, sqlite or redis"},
		&cli.StringFlag{Name: "sqlite-path", Value: def.SQLitePath, Usage: "SQLite database for --store sqlite"},
		&cli.StringFlag{Name: "redis-addr", Value: def.RedisAddr, Usage: "Redis address for --store redis"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: def.Limit, Usage: "lines shown per word (0 = all)"},
		&cli.IntFlag{Name: "top", Value: def.Top, Usage: "most frequent words listed in the stats"},
	)
}

func IndexAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), common.ExitCode(err))
	}

	if err := Run(c.Context, cfg, storage.New(os.Stdin), os.Stdout, logger); err != nil {
		logger.Error("index failed", "error", err)
		return cli.Exit(err.Error(), common.ExitCode(err))
	}
	return nil
}

// Run indexes cfg.Input and writes the result to w, or to cfg.Output when set.
func Run(ctx context.Context, cfg *models.IndexConfig, st *storage.Storage, w io.Writer, logger *slog.Logger) error {
	startTime := time.Now()
	if err := cfg.Validate(); err != nil {
		return err
	}
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	loader := common.NewLoader(st, cfg, logger)
	words, err := loader.LoadWords(cfg)
	if err != nil {
		return err
	}
	var skipped []string
	if cfg.SkipStopwords {
		words, skipped = (&analytics.Analytics{}).FilterStopwords(words)
		logger.Info("Dropped stopwords from query", "dropped", len(skipped), "kept", len(words))
	}
	query, err := matcher.NewQuerySet(words)
	if err != nil {
		return err
	}
	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", chunker.ErrInvalidChunkSize, cfg.ChunkSize)
	}

	doc, err := loader.LoadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	size := len(doc)

	store, closeStore, err := openStore(ctx, cfg, runID)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to clean up intermediate store", "store", cfg.Store, "error", err)
		}
	}()

	engine := mapreduce.NewEngine(store, mapreduce.Options{
		Workers:     cfg.Workers,
		Partitions:  cfg.Partitions,
		Combine:     cfg.Combine,
		ReduceBatch: cfg.ReduceBatch,
	}, logger)

	logger.Info("Starting index run", "bytes", size, "words", query.Len(), "chunk_size", cfg.ChunkSize, "store", cfg.Store)
	idx, err := lineindex.Build(ctx, engine, doc, query.Words(), cfg.ChunkSize)
	if err != nil {
		return err
	}
	logger.Info("Index run complete", "chunks", idx.Chunks, "lines", idx.Lines, "line_hits", idx.LineHits, "elapsed", time.Since(startTime).String())

	out := buildOutput(cfg, runID, query, idx, engine.Options())
	out.Skipped = skipped
	out.Stats.Bytes = size
	out.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	return writeResult(cfg, st, w, func(dst io.Writer) error {
		return common.WriteOutput(dst, cfg.Format, out, func(tw io.Writer) error {
			return writeText(tw, out)
		})
	})
}

func buildOutput(cfg *models.IndexConfig, runID string, query *matcher.QuerySet, idx *lineindex.Index, opts mapreduce.Options) *models.IndexOutput {
	shown := idx.Truncate(cfg.Limit)

	out := &models.IndexOutput{
		Status: "success",
		RunID:  runID,
		Input:  cfg.Input,
		Words:  make([]models.WordLines, 0, len(shown.Entries)),
		Stats: models.Stats{
			Chunks:     idx.Chunks,
			Lines:      idx.Lines,
			LineHits:   idx.LineHits,
			Workers:    opts.Workers,
			Partitions: opts.Partitions,
			Store:      cfg.Store,
			TopWords:   idx.TopWords(cfg.Top),
		},
	}

	for i, e := range shown.Entries {
		count := len(idx.Entries[i].Lines)
		out.Words = append(out.Words, models.WordLines{
			Word:      e.Word,
			Count:     count,
			Lines:     e.Lines,
			Truncated: len(e.Lines) < count,
		})
	}
	for _, w := range query.Words() {
		if _, ok := idx.Lookup(w); !ok {
			out.Missing = append(out.Missing, w)
		}
	}
	return out
}

func writeText(w io.Writer, out *models.IndexOutput) error {
	var sb strings.Builder
	sb.WriteString("Results:\n")
	for _, wl := range out.Words {
		fmt.Fprintf(&sb, "%15s - ", wl.Word)
		for i, line := range wl.Lines {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", line)
		}
		if wl.Truncated {
			fmt.Fprintf(&sb, " ... (%d total)", wl.Count)
		}
		sb.WriteByte('\n')
	}
	if len(out.Missing) > 0 {
		fmt.Fprintf(&sb, "\nNot found: %s\n", strings.Join(out.Missing, ", "))
	}

	s := out.Stats
	fmt.Fprintf(&sb, "\n%d bytes, %d lines, %d chunks, %d word lines in %.3fs (store=%s workers=%d partitions=%d)\n",
		s.Bytes, s.Lines, s.Chunks, s.LineHits, s.TotalTimeSeconds, s.Store, s.Workers, s.Partitions)
	if len(s.TopWords) > 0 {
		fmt.Fprintf(&sb, "Top words: %s\n", strings.Join(s.TopWords, " "))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeResult renders into w, or buffers and saves to cfg.Output.
func writeResult(cfg *models.IndexConfig, st *storage.Storage, w io.Writer, render func(io.Writer) error) error {
	if cfg.Output == "" {
		return render(w)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return st.SaveFile(cfg.Output, buf.Bytes())
}
