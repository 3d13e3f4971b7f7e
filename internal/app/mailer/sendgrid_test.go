package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"academy/internal/app/config"
)

func TestSendGridSend(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sg, err := NewSendGrid(config.MailConfig{APIKey: "key", BaseURL: srv.URL, FromEmail: "info@academy.local", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewSendGrid: %v", err)
	}

	err = sg.Send(context.Background(), Message{
		To:          Address{Email: "ana@example.com", Name: "Ana"},
		Subject:     "Ugovor",
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Filename: "ugovor.pdf", MIMEType: "application/pdf", Content: []byte("%PDF")}},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(got.Personalizations) != 1 || got.Personalizations[0].To[0].Email != "ana@example.com" {
		t.Fatalf("unexpected personalizations: %+v", got.Personalizations)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Content != "JVBERg==" {
		t.Fatalf("unexpected attachments: %+v", got.Attachments)
	}
}

func TestSendGridDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"errors":[{"message":"bad"}]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	sg, _ := NewSendGrid(config.MailConfig{APIKey: "key", BaseURL: srv.URL, FromEmail: "a@b.c"})
	if err := sg.Send(context.Background(), Message{To: Address{Email: "x@y.z"}}); err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestNewSendGridRequiresKey(t *testing.T) {
	if _, err := NewSendGrid(config.MailConfig{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}
