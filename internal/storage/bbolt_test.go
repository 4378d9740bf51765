package storage

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgerfile/ledgerfile/internal/model"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".ledger")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s
}

func TestInitialize(t *testing.T) {
	s := openTestStorage(t)

	initialized, err := s.IsInitialized()
	if err != nil {
		t.Fatalf("IsInitialized failed: %v", err)
	}
	if !initialized {
		t.Error("expected initialized database")
	}
}

func TestContainerRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	if _, err := s.GetContainer(); err == nil {
		t.Error("expected error before any container is stored")
	}

	envelope := []byte("LDGR\x01 pretend envelope bytes")
	if err := s.SetContainer(envelope); err != nil {
		t.Fatalf("SetContainer failed: %v", err)
	}

	got, err := s.GetContainer()
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if !bytes.Equal(got, envelope) {
		t.Error("container bytes mismatch")
	}

	// Replace
	replacement := []byte("LDGR\x01 new envelope")
	if err := s.SetContainer(replacement); err != nil {
		t.Fatalf("SetContainer (replace) failed: %v", err)
	}
	got, err = s.GetContainer()
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if !bytes.Equal(got, replacement) {
		t.Error("container not replaced")
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	want := model.Summary{Customers: 3, Invoices: 7, Items: 2, Rentals: 1, Open: 1}
	if err := s.SetSummary(want); err != nil {
		t.Fatalf("SetSummary failed: %v", err)
	}

	got, err := s.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if got != want {
		t.Errorf("summary mismatch: got %+v, want %+v", got, want)
	}
}

func TestModifiedTimestamp(t *testing.T) {
	s := openTestStorage(t)

	before, err := s.GetModified()
	if err != nil {
		t.Fatalf("GetModified failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := s.UpdateModified(); err != nil {
		t.Fatalf("UpdateModified failed: %v", err)
	}

	after, err := s.GetModified()
	if err != nil {
		t.Fatalf("GetModified failed: %v", err)
	}
	if !after.After(before) {
		t.Error("modified timestamp did not advance")
	}
}

func TestLedgerID(t *testing.T) {
	s := openTestStorage(t)

	if _, err := s.GetLedgerID(); err == nil {
		t.Error("expected error before an ID is created")
	}

	id1, err := s.GetOrCreateLedgerID()
	if err != nil {
		t.Fatalf("GetOrCreateLedgerID failed: %v", err)
	}
	if id1 == "" {
		t.Fatal("empty ledger ID")
	}

	id2, err := s.GetOrCreateLedgerID()
	if err != nil {
		t.Fatalf("GetOrCreateLedgerID failed: %v", err)
	}
	if id1 != id2 {
		t.Error("ledger ID should be stable")
	}
}

func TestCompact(t *testing.T) {
	s := openTestStorage(t)

	envelope := bytes.Repeat([]byte("x"), 4096)
	if err := s.SetContainer(envelope); err != nil {
		t.Fatalf("SetContainer failed: %v", err)
	}
	if err := s.SetSummary(model.Summary{Customers: 1}); err != nil {
		t.Fatalf("SetSummary failed: %v", err)
	}

	if err := s.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	// Data survives compaction
	got, err := s.GetContainer()
	if err != nil {
		t.Fatalf("GetContainer after compact failed: %v", err)
	}
	if !bytes.Equal(got, envelope) {
		t.Error("container lost during compaction")
	}
	summary, err := s.GetSummary()
	if err != nil {
		t.Fatalf("GetSummary after compact failed: %v", err)
	}
	if summary.Customers != 1 {
		t.Error("summary lost during compaction")
	}
}
