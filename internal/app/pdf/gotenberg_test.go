package pdf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGotenbergRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/chromium/convert/html" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		file, header, err := r.FormFile("files")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "index.html" {
			t.Errorf("filename = %q", header.Filename)
		}
		html, _ := io.ReadAll(file)
		if !strings.Contains(string(html), "hello") {
			t.Errorf("html not forwarded: %q", html)
		}
		w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	out, err := NewGotenberg(srv.URL+"/", time.Second).Render(context.Background(), []byte("<p>hello</p>"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "%PDF-1.7" {
		t.Fatalf("got %q", out)
	}
}

func TestGotenbergRenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewGotenberg(srv.URL, time.Second).Render(context.Background(), []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status error, got %v", err)
	}
}
