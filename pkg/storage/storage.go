// Package storage reads documents and query lists from disk and writes reports.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

type Storage struct {
	stdin io.Reader
}

// New returns a Storage that reads "-" from stdin.
func New(stdin io.Reader) *Storage {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Storage{stdin: stdin}
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// ReadFile returns the whole file, or all of stdin for "-".
func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	if filePath == Stdin {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// ReadWords loads a query list. Every whitespace-separated token contributes
// its leading run of ASCII letters; tokens that start with anything else are
// skipped.
func (s *Storage) ReadWords(filePath string) ([]string, error) {
	var r io.Reader = s.stdin
	if filePath != Stdin {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("error reading word list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if w := leadingLetters(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading word list: %w", err)
	}
	return words, nil
}

func leadingLetters(token string) string {
	i := 0
	for i < len(token) {
		b := token[i]
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			break
		}
		i++
	}
	return token[:i]
}
