package document

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"academy/internal/app/ds"
)

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF"), nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memStore) FileExists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[key]
	return ok, nil
}

func (m *memStore) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[key], nil
}

func (m *memStore) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	return nil
}

func (m *memStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}

func testContract() (*ds.Contract, *ds.Student) {
	c := &ds.Contract{ContractNumber: "UG-2026-000007", ContractContent: "text", SignedAt: time.Now()}
	s := &ds.Student{FirstName: "Ana", LastName: "Anić"}
	return c, s
}

func TestContractPDFArchivesOnce(t *testing.T) {
	r := &fakeRenderer{}
	store := &memStore{files: map[string][]byte{}}
	svc := NewService(r, store)
	c, s := testContract()

	for i := 0; i < 2; i++ {
		out, err := svc.ContractPDF(context.Background(), c, s, "B kategorija")
		if err != nil {
			t.Fatalf("ContractPDF: %v", err)
		}
		if string(out) != "%PDF" {
			t.Fatalf("got %q", out)
		}
	}
	if r.calls != 1 {
		t.Fatalf("renderer calls = %d, want 1", r.calls)
	}
	if _, ok := store.files["contracts/UG-2026-000007.pdf"]; !ok {
		t.Fatalf("pdf was not archived")
	}
}

func TestContractPDFWithoutStore(t *testing.T) {
	r := &fakeRenderer{err: errors.New("gotenberg down")}
	c, s := testContract()

	if _, err := NewService(r, nil).ContractPDF(context.Background(), c, s, "B"); err == nil {
		t.Fatalf("expected renderer error")
	}
}

func TestForgetRemovesArchivedCopies(t *testing.T) {
	store := &memStore{files: map[string][]byte{
		"contracts/UG-2026-000001.pdf": []byte("a"),
		"contracts/UG-2026-000002.pdf": []byte("b"),
	}}
	svc := NewService(&fakeRenderer{}, store)

	svc.Forget(context.Background(), []string{"UG-2026-000001"})
	if _, ok := store.files["contracts/UG-2026-000001.pdf"]; ok {
		t.Fatal("archived copy still present")
	}
	if len(store.files) != 1 {
		t.Fatalf("files = %v", store.files)
	}

	// no store configured is a no-op
	NewService(&fakeRenderer{}, nil).Forget(context.Background(), []string{"UG-2026-000002"})
}
