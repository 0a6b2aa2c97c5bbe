package storage

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	s := New(strings.NewReader("from stdin"))

	path := filepath.Join(dir, "doc.txt")
	if s.HasFile(path) {
		t.Fatal("HasFile() before SaveFile")
	}
	if err := s.SaveFile(path, []byte("cat sat")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("HasFile() after SaveFile")
	}

	data, err := s.ReadFile(path)
	if err != nil || string(data) != "cat sat" {
		t.Errorf("ReadFile() = %q, %v", data, err)
	}

	stats, err := s.GetFileStats(path)
	if err != nil || stats.SizeBytes != 7 {
		t.Errorf("GetFileStats() = %+v, %v", stats, err)
	}

	data, err = s.ReadFile(Stdin)
	if err != nil || string(data) != "from stdin" {
		t.Errorf("ReadFile(-) = %q, %v", data, err)
	}

	if _, err := s.ReadFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("ReadFile() on a missing file should fail")
	}
}

func TestReadWords(t *testing.T) {
	dir := t.TempDir()
	s := New(nil)
	path := filepath.Join(dir, "words.txt")
	if err := s.SaveFile(path, []byte("cat\ndog's  mat42\n\n  7up hello-world\tTHE\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	got, err := s.ReadWords(path)
	if err != nil {
		t.Fatalf("ReadWords() error = %v", err)
	}
	want := []string{"cat", "dog", "mat", "hello", "THE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadWords() = %v, want %v", got, want)
	}

	if _, err := s.ReadWords(filepath.Join(dir, "missing")); err == nil {
		t.Error("ReadWords() on a missing file should fail")
	}
}
