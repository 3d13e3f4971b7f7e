package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"academy/internal/app/ds"
	"academy/internal/app/mailer"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[msg.To.Email]; err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePDF struct{ err error }

func (f fakePDF) ContractPDF(ctx context.Context, c *ds.Contract, s *ds.Student, name string) ([]byte, error) {
	return []byte("%PDF"), f.err
}

func testJob() ContractSigned {
	return ContractSigned{
		Contract:    ds.Contract{ContractNumber: "UG-2026-000001", SignedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
		Student:     ds.Student{FirstName: "Ana", LastName: "Anić", Email: "ana@example.com"},
		PackageName: "B kategorija",
		PackageSlug: "b-kategorija",
	}
}

func TestDeliverSendsBothMails(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m, fakePDF{}, "admin@academy.local", 1, time.Second)

	res := d.Deliver(context.Background(), testJob())
	if res.StudentErr != nil || res.AdminErr != nil {
		t.Fatalf("unexpected errors: %+v", res)
	}
	if m.count() != 2 {
		t.Fatalf("sent = %d, want 2", m.count())
	}
	for _, msg := range m.sent {
		if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "B_KATEGORIJA_Ana_Anić_2026-05-01.pdf" {
			t.Fatalf("unexpected attachments: %+v", msg.Attachments)
		}
	}
}

func TestDeliverIsolatesFailures(t *testing.T) {
	boom := errors.New("smtp down")
	m := &fakeMailer{fail: map[string]error{"ana@example.com": boom}}
	d := NewDispatcher(m, fakePDF{err: errors.New("no pdf")}, "admin@academy.local", 1, time.Second)

	res := d.Deliver(context.Background(), testJob())
	if !errors.Is(res.StudentErr, boom) {
		t.Fatalf("student err = %v", res.StudentErr)
	}
	if res.AdminErr != nil {
		t.Fatalf("admin mail should still go out, got %v", res.AdminErr)
	}
	if len(m.sent) != 1 || len(m.sent[0].Attachments) != 0 {
		t.Fatalf("admin mail should be sent without attachment: %+v", m.sent)
	}
}

func TestEnqueueAndDrain(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m, nil, "", 4, time.Second)
	d.Start()

	for i := 0; i < 3; i++ {
		if !d.Enqueue(testJob()) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.count() != 3 {
		t.Fatalf("sent = %d, want 3", m.count())
	}
	if d.Enqueue(testJob()) {
		t.Fatalf("enqueue after close must be rejected")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	d := NewDispatcher(&fakeMailer{}, nil, "", 1, time.Second)

	if !d.Enqueue(testJob()) {
		t.Fatalf("first job should fit")
	}
	if d.Enqueue(testJob()) {
		t.Fatalf("second job should be dropped")
	}
}
