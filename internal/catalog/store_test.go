package catalog

import (
	"fmt"
	"sync"
	"testing"
)

func insertWithTimestamp(t *testing.T, store Store, name string, timestamp int64) *MediaRecord {
	t.Helper()
	record := NewMediaRecord(name, "/uploads/"+name, true)
	record.Timestamp = timestamp
	if err := store.Insert(record); err != nil {
		t.Fatalf("Failed to insert record %s: %v", name, err)
	}
	return record
}

func TestMemoryStoreOrdering(t *testing.T) {
	store := NewMemoryStore()

	for _, ts := range []int64{5, 1, 0, 3} {
		insertWithTimestamp(t, store, fmt.Sprintf("clip-%d.mp4", ts), ts)
	}

	records, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}

	want := []int64{5, 3, 1, 0}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	for i, ts := range want {
		if records[i].Timestamp != ts {
			t.Errorf("Position %d: expected timestamp %d, got %d", i, ts, records[i].Timestamp)
		}
	}
}

func TestMemoryStoreListIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	insertWithTimestamp(t, store, "a.mp4", 10)
	insertWithTimestamp(t, store, "b.mp4", 20)
	insertWithTimestamp(t, store, "c.mp4", 20)

	first, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	second, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("List sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Position %d: order changed between calls (%s vs %s)", i, first[i].ID, second[i].ID)
		}
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	store := NewMemoryStore()
	insertWithTimestamp(t, store, "a.mp4", 1)

	records, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}

	records[0].Name = "mutated"

	again, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	if again[0].Name != "a.mp4" {
		t.Errorf("Listing returned a shared slice; record was mutated to %q", again[0].Name)
	}
}

func TestMemoryStoreRejectsMissingID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Insert(&MediaRecord{Name: "no-id.mp4"}); err == nil {
		t.Error("Expected error for record without id")
	}
}

func TestMemoryStoreConcurrentInserts(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := NewMediaRecord(fmt.Sprintf("clip-%d.mp4", i), "/uploads/x.mp4", true)
			if err := store.Insert(record); err != nil {
				t.Errorf("Insert failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, err := store.ListNewestFirst()
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	if len(records) != 50 {
		t.Errorf("Expected 50 records, got %d", len(records))
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	defer store.Close()

	t.Run("EmptyList", func(t *testing.T) {
		records, err := store.ListNewestFirst()
		if err != nil {
			t.Fatalf("Failed to list records: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", records)
		}
	})

	t.Run("InsertAndOrder", func(t *testing.T) {
		for _, ts := range []int64{5, 1, 0, 3} {
			insertWithTimestamp(t, store, fmt.Sprintf("clip-%d.mp4", ts), ts)
		}

		records, err := store.ListNewestFirst()
		if err != nil {
			t.Fatalf("Failed to list records: %v", err)
		}

		want := []int64{5, 3, 1, 0}
		if len(records) != len(want) {
			t.Fatalf("Expected %d records, got %d", len(want), len(records))
		}
		for i, ts := range want {
			if records[i].Timestamp != ts {
				t.Errorf("Position %d: expected timestamp %d, got %d", i, ts, records[i].Timestamp)
			}
		}
	})

	t.Run("FormationRoundTrip", func(t *testing.T) {
		record := NewMediaRecord("formation.png", "/uploads/formation.png", false)
		record.Timestamp = 99
		record.Formation = "SHOTGUN"
		if err := store.Insert(record); err != nil {
			t.Fatalf("Failed to insert record: %v", err)
		}

		records, err := store.ListNewestFirst()
		if err != nil {
			t.Fatalf("Failed to list records: %v", err)
		}
		if records[0].Formation != "SHOTGUN" {
			t.Errorf("Expected formation SHOTGUN, got %q", records[0].Formation)
		}
		if records[0].IsVideo {
			t.Error("Expected image record, got video")
		}
	})

	t.Run("DuplicateID", func(t *testing.T) {
		record := NewMediaRecord("dup.mp4", "/uploads/dup.mp4", true)
		if err := store.Insert(record); err != nil {
			t.Fatalf("Failed to insert record: %v", err)
		}
		if err := store.Insert(record); err == nil {
			t.Error("Expected error inserting duplicate id")
		}
	})
}
