package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc.txt":
			w.Write([]byte("cat sat\non the mat"))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(0)

	body, err := f.GetBytes(context.Background(), srv.URL+"/doc.txt")
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if string(body) != "cat sat\non the mat" {
		t.Errorf("GetBytes() = %q", body)
	}

	_, err = f.GetBytes(context.Background(), srv.URL+"/missing")
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("GetBytes() on 404 error = %v, want ErrBadStatus", err)
	}

	short := NewFetcher(20 * time.Millisecond)
	if _, err := short.GetBytes(context.Background(), srv.URL+"/slow"); err == nil {
		t.Error("GetBytes() should time out")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.GetBytes(ctx, srv.URL+"/doc.txt"); !errors.Is(err, context.Canceled) {
		t.Errorf("GetBytes() with cancelled context error = %v", err)
	}
}
