package split

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/line-index/internal/common"
	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/analytics"
	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Flags returns the flags of the split command.
func Flags() []cli.Flag {
	return append(common.InputFlags(),
		&cli.IntFlag{Name: "suggest", Usage: "also list this many frequent words as query candidates"},
	)
}

// SplitAction prints how a document would be chunked without indexing it.
func SplitAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), common.ExitCode(err))
	}

	if err := Run(c.Context, cfg, storage.New(os.Stdin), os.Stdout, logger); err != nil {
		logger.Error("split failed", "error", err)
		return cli.Exit(err.Error(), common.ExitCode(err))
	}
	return nil
}

func Run(ctx context.Context, cfg *models.IndexConfig, st *storage.Storage, w io.Writer, logger *slog.Logger) error {
	doc, err := common.NewLoader(st, cfg, logger).LoadDocument(ctx, cfg)
	if err != nil {
		return err
	}

	chunks, err := chunker.Split(doc, cfg.ChunkSize)
	if err != nil {
		return err
	}

	out := &models.SplitOutput{
		Input:     cfg.Input,
		Bytes:     len(doc),
		ChunkSize: cfg.ChunkSize,
		Chunks:    make([]models.ChunkInfo, 0, len(chunks)),
	}
	for _, ch := range chunks {
		out.Chunks = append(out.Chunks, models.ChunkInfo{
			ID:    ch.ID,
			Start: ch.Start,
			End:   ch.End,
			Bytes: ch.Len(),
			Lines: bytes.Count(ch.Bytes(doc), []byte{'\n'}) + 1,
		})
	}
	if cfg.Suggest > 0 {
		out.Suggested = (&analytics.Analytics{}).TopNWords(string(doc), cfg.Suggest)
	}
	logger.Info("Split document", "bytes", out.Bytes, "chunks", len(out.Chunks), "chunk_size", cfg.ChunkSize)

	render := func(dst io.Writer) error {
		return common.WriteOutput(dst, cfg.Format, out, func(tw io.Writer) error {
			return writeText(tw, out)
		})
	}
	if cfg.Output == "" {
		return render(w)
	}
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return st.SaveFile(cfg.Output, buf.Bytes())
}

func writeText(w io.Writer, out *models.SplitOutput) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d bytes in %d chunks (target %d)\n", out.Bytes, len(out.Chunks), out.ChunkSize)
	fmt.Fprintf(&sb, "%6s %12s %12s %10s %8s\n", "CHUNK", "START", "END", "BYTES", "LINES")
	for _, ch := range out.Chunks {
		fmt.Fprintf(&sb, "%6d %12d %12d %10d %8d\n", ch.ID, ch.Start, ch.End, ch.Bytes, ch.Lines)
	}
	if len(out.Suggested) > 0 {
		fmt.Fprintf(&sb, "Suggested words: %s\n", strings.Join(out.Suggested, ","))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
