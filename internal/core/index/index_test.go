package index

import (
	"context"
	"sync"
	"testing"
)

func TestUpsertAndSearch(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(1, map[string]int{"go": 3, "lang": 1})
	idx.UpsertDocument(2, map[string]int{"go": 1})

	results := idx.Search([]string{"go"}, 10)
	if len(results) != 2 {
		t.Fatalf("Search(go) returned %d results, want 2", len(results))
	}
	if results[0].DocID != 1 || results[0].Score != 3 {
		t.Fatalf("top result = %+v, want {DocID:1 Score:3}", results[0])
	}
	if results[1].DocID != 2 || results[1].Score != 1 {
		t.Fatalf("second result = %+v, want {DocID:2 Score:1}", results[1])
	}
}

func TestUpsertReplacesOldPostings(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(1, map[string]int{"old": 5})
	idx.UpsertDocument(1, map[string]int{"new": 2})

	if got := idx.Search([]string{"old"}, 10); len(got) != 0 {
		t.Fatalf("stale term still present: %v", got)
	}
	got := idx.Search([]string{"new"}, 10)
	if len(got) != 1 || got[0].DocID != 1 || got[0].Score != 2 {
		t.Fatalf("Search(new) = %v, want single doc 1 score 2", got)
	}
}

func TestRemoveDocumentNoOpIfAbsent(t *testing.T) {
	idx := New(4)
	idx.RemoveDocument(42)
	stats, err := idx.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 0 {
		t.Fatalf("Stats.Documents = %d, want 0", stats.Documents)
	}
}

func TestSearchTopKAndTieBreakByDocID(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(3, map[string]int{"x": 1})
	idx.UpsertDocument(2, map[string]int{"x": 1})
	idx.UpsertDocument(1, map[string]int{"x": 1})

	got := idx.Search([]string{"x"}, 2)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].DocID != 1 || got[1].DocID != 2 {
		t.Fatalf("tie-break order = %v, want doc ids ascending [1 2]", got)
	}
}

func TestSearchRepeatedTermsAreNotDeduplicated(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(1, map[string]int{"go": 1})

	got := idx.Search([]string{"go", "go"}, 10)
	if len(got) != 1 || got[0].Score != 2 {
		t.Fatalf("Search([go go]) = %v, want score 2 from repeated term", got)
	}
}

func TestUpsertIgnoresNonPositiveFrequencies(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(1, map[string]int{"zero": 0, "neg": -1, "ok": 1})

	if got := idx.Search([]string{"zero"}, 10); len(got) != 0 {
		t.Fatalf("zero-freq term should not be indexed: %v", got)
	}
	if got := idx.Search([]string{"ok"}, 10); len(got) != 1 {
		t.Fatalf("positive-freq term should be indexed: %v", got)
	}
}

func TestStatsDocumentsTracksForwardMapNotCount(t *testing.T) {
	idx := New(4)
	idx.UpsertDocument(1, map[string]int{"a": 1})
	idx.UpsertDocument(2, map[string]int{})

	stats, err := idx.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 2 {
		t.Fatalf("Stats.Documents = %d, want 2 (forward map tracks both)", stats.Documents)
	}
}

func TestSnapshotCoversAllShards(t *testing.T) {
	idx := New(8)
	for i := int64(1); i <= 50; i++ {
		idx.UpsertDocument(i, map[string]int{"term": int(i)})
	}
	snap, err := idx.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, tp := range snap {
		total += len(tp.Postings)
	}
	if total != 50 {
		t.Fatalf("snapshot posting count = %d, want 50", total)
	}
}

func TestConcurrentUpsertAndSearchDoesNotRace(t *testing.T) {
	idx := New(16)
	var wg sync.WaitGroup
	for i := int64(0); i < 100; i++ {
		wg.Add(1)
		go func(i int64) {
			defer wg.Done()
			idx.UpsertDocument(i, map[string]int{"shared": 1, "unique": int(i)})
		}(i)
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx.Search([]string{"shared"}, 5)
		}()
	}
	wg.Wait()

	got := idx.Search([]string{"shared"}, 1000)
	if len(got) != 100 {
		t.Fatalf("final Search(shared) = %d results, want 100", len(got))
	}
}
