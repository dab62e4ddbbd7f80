package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/bulk/internal/codec"
	"github.com/bft-labs/bulk/internal/domain"
)

func TestJournalSink_AppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")
	s, err := NewJournalSink(path)
	if err != nil {
		t.Fatalf("NewJournalSink() error = %v", err)
	}

	batches := []domain.Batch{
		domain.NewBatch(1, 100, []string{"cmd1", "cmd2"}),
		domain.NewBatch(2, 200, []string{""}),
	}
	for _, b := range batches {
		if err := s.Deliver(b); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []codec.Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		r, err := codec.Decode(sc.Bytes())
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		records = append(records, r)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Timestamp != 100 || len(records[0].Commands) != 2 {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Seq != 2 || records[1].Commands[0] != "" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestJournalSink_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	for i := 0; i < 2; i++ {
		s, err := NewJournalSink(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Deliver(domain.NewBatch(1, int64(i), []string{"a"})); err != nil {
			t.Fatal(err)
		}
		_ = s.Close()
	}
	data, _ := os.ReadFile(path)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Errorf("journal has %d lines, want 2", lines)
	}
}
