package query

import (
	"context"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/docstore"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/tokenizer"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	idx := index.New(4)
	store := docstore.New()
	tok := tokenizer.New(tokenizer.DefaultConfig())

	aID, _ := store.GetOrCreate("/a.txt", time.Unix(0, 0))
	bID, _ := store.GetOrCreate("/b.txt", time.Unix(0, 0))
	idx.UpsertDocument(aID, map[string]int{"hello": 2, "world": 1})
	idx.UpsertDocument(bID, map[string]int{"world": 1, "warcraft": 1})

	return New(idx, store, tok, nil)
}

func TestSearchResolvesPaths(t *testing.T) {
	s := newTestService(t)

	resp := s.Search(context.Background(), "hello", 10)
	if len(resp.Terms) != 1 || resp.Terms[0] != "hello" {
		t.Fatalf("Terms = %v, want [hello]", resp.Terms)
	}
	if len(resp.Hits) != 1 || resp.Hits[0].Path != "/a.txt" {
		t.Fatalf("Hits = %+v, want single hit for /a.txt", resp.Hits)
	}
}

func TestSearchZeroTopKMeansUnlimited(t *testing.T) {
	s := newTestService(t)
	resp := s.Search(context.Background(), "world", 0)
	if len(resp.Hits) != 2 {
		t.Fatalf("Hits = %d, want 2 (topK<=0 means no limit)", len(resp.Hits))
	}
}
