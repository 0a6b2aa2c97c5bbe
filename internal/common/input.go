// Package common holds the pieces shared by the index and split commands:
// loading input, rendering output and mapping errors to exit codes.
package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/caching"
	"github.com/dtnitsch/line-index/pkg/fetcher"
	"github.com/dtnitsch/line-index/pkg/parser"
	"github.com/dtnitsch/line-index/pkg/storage"
)

// ErrInput marks failures caused by what the user asked for rather than by
// the run itself.
var ErrInput = errors.New("input error")

// Loader resolves the configured input into document bytes.
type Loader struct {
	Storage *storage.Storage
	Fetcher *fetcher.Fetcher
	Parser  *parser.Parser
	Logger  *slog.Logger
}

// NewLoader wires a loader with default collaborators.
func NewLoader(st *storage.Storage, cfg *models.IndexConfig, logger *slog.Logger) *Loader {
	return &Loader{
		Storage: st,
		Fetcher: fetcher.NewFetcher(cfg.Timeout),
		Parser:  &parser.Parser{},
		Logger:  logger,
	}
}

// LoadDocument reads a file, stdin or URL and converts it to text when the
// input format asks for it.
func (l *Loader) LoadDocument(ctx context.Context, cfg *models.IndexConfig) ([]byte, error) {
	var raw []byte
	var err error
	source := cfg.Input

	if IsURL(cfg.Input) {
		if source, err = ValidateURL(cfg.Input); err != nil {
			return nil, err
		}
		raw, err = l.fetch(ctx, source, cfg)
	} else {
		raw, err = l.readLocal(cfg.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}

	l.Logger.Info("Loaded document", "input", source, "bytes", len(raw), "sha256", ContentHash(raw))

	switch cfg.InputFormat {
	case models.InputFormatHTML:
		text, err := l.Parser.ToText(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
		return []byte(text), nil
	case models.InputFormatArticle:
		pageURL := source
		if !IsURL(pageURL) {
			pageURL = "file:///" + strings.TrimPrefix(pageURL, "/")
		}
		text, err := l.Parser.ArticleText(pageURL, string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
		return []byte(text), nil
	}
	return raw, nil
}

func (l *Loader) readLocal(path string) ([]byte, error) {
	if path != storage.Stdin {
		if !l.Storage.HasFile(path) {
			return nil, fmt.Errorf("document %s not found", path)
		}
		stats, err := l.Storage.GetFileStats(path)
		if err != nil {
			return nil, err
		}
		l.Logger.Info("Reading document", "path", path, "size_bytes", stats.SizeBytes, "mod_time", stats.ModTime)
	}
	return l.Storage.ReadFile(path)
}

func (l *Loader) fetch(ctx context.Context, url string, cfg *models.IndexConfig) ([]byte, error) {
	get := func() ([]byte, error) {
		return l.Fetcher.GetBytes(ctx, url)
	}
	if cfg.CacheDir == "" || cfg.MaxAge <= 0 {
		return get()
	}

	cache, err := caching.NewCache(cfg.CacheDir, cfg.MaxAge)
	if err != nil {
		return nil, err
	}
	data, hit, err := cache.GetOrFetch(url, get)
	if data == nil {
		return nil, err
	}
	if err != nil {
		l.Logger.Warn("failed to cache document", "url", url, "error", err)
	}
	l.Logger.Info("Fetched document", "url", url, "cache_hit", hit)
	return data, nil
}

// LoadWords merges the inline query words with the words file, if any.
func (l *Loader) LoadWords(cfg *models.IndexConfig) ([]string, error) {
	var words []string
	for _, w := range cfg.Words {
		for _, part := range strings.Split(w, ",") {
			if part = strings.TrimSpace(part); part != "" {
				words = append(words, part)
			}
		}
	}

	if cfg.WordsFile != "" {
		fromFile, err := l.Storage.ReadWords(cfg.WordsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInput, err)
		}
		words = append(words, fromFile...)
	}
	return words, nil
}
