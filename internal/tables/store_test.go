package tables

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

// countingSource records how many reads reach the underlying source.
type countingSource struct {
	reads int64
	rows  map[string][]Row
	err   error
}

func (s *countingSource) ReadTable(ctx context.Context, name string) ([]Row, error) {
	atomic.AddInt64(&s.reads, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[name], nil
}

func TestStore_LoadCachesTable(t *testing.T) {
	source := &countingSource{
		rows: map[string][]Row{
			"partner": {{"partner_id": "p_1"}},
		},
	}
	store := NewStore(source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := store.Load(ctx, "partner")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
	}

	if n := atomic.LoadInt64(&source.reads); n != 1 {
		t.Errorf("expected 1 underlying read, got %d", n)
	}
}

func TestStore_LoadDistinctTables(t *testing.T) {
	source := &countingSource{
		rows: map[string][]Row{
			"partner": {{"partner_id": "p_1"}},
			"account": {{"account_id": "a_1"}},
		},
	}
	store := NewStore(source)
	ctx := context.Background()

	if _, err := store.Load(ctx, "partner"); err != nil {
		t.Fatalf("Load partner failed: %v", err)
	}
	if _, err := store.Load(ctx, "account"); err != nil {
		t.Fatalf("Load account failed: %v", err)
	}

	if n := atomic.LoadInt64(&source.reads); n != 2 {
		t.Errorf("expected 2 underlying reads, got %d", n)
	}
}

func TestStore_ConcurrentLoad(t *testing.T) {
	source := &countingSource{
		rows: map[string][]Row{
			"transactions": {{"Account ID": "a_1"}},
		},
	}
	store := NewStore(source)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Load(context.Background(), "transactions"); err != nil {
				t.Errorf("Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt64(&source.reads); n != 1 {
		t.Errorf("expected 1 underlying read, got %d", n)
	}
}

func TestStore_FailedLoadNotCached(t *testing.T) {
	source := &countingSource{
		err: os.ErrNotExist,
	}
	store := NewStore(source)
	ctx := context.Background()

	if _, err := store.Load(ctx, "partner"); err == nil {
		t.Fatal("expected error")
	}

	// The failure is not cached; a recovered source serves the next call.
	source.err = nil
	source.rows = map[string][]Row{"partner": {{"partner_id": "p_1"}}}

	rows, err := store.Load(ctx, "partner")
	if err != nil {
		t.Fatalf("Load after recovery failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestStore_WithDirSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partner.csv")
	if err := os.WriteFile(path, []byte("partner_id,partner_name\np_1,Alice Meier\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	store := NewStore(NewDirSource(dir))
	rows, err := store.Load(context.Background(), "partner")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["partner_name"] != "Alice Meier" {
		t.Errorf("unexpected rows: %v", rows)
	}

	// Deleting the file must not matter once the table is cached.
	os.Remove(path)
	rows, err = store.Load(context.Background(), "partner")
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected cached row, got %d rows", len(rows))
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}
