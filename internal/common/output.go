package common

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/line-index/models"
	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/matcher"
	"gopkg.in/yaml.v3"
)

// Exit codes.
const (
	ExitInput   = 1
	ExitRuntime = 2
)

// NewLogger returns the JSON stderr logger used by every command.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInput),
		errors.Is(err, models.ErrInvalidConfig),
		errors.Is(err, matcher.ErrEmptyQuery),
		errors.Is(err, matcher.ErrMalformedWord),
		errors.Is(err, chunker.ErrInvalidChunkSize):
		return ExitInput
	}
	return ExitRuntime
}

// WriteOutput renders v as JSON or YAML, or calls text for the text format.
func WriteOutput(w io.Writer, format string, v any, text func(io.Writer) error) error {
	var outputData []byte
	var err error

	switch format {
	case models.FormatJSON:
		outputData, err = json.MarshalIndent(v, "", "  ")
		outputData = append(outputData, '\n')
	case models.FormatYAML:
		outputData, err = yaml.Marshal(v)
	default:
		return text(w)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if _, err := w.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
