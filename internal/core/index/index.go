// Package index implements a concurrent, sharded inverted index. Terms
// are distributed across shards by a stable hash so that search and
// upsert traffic for unrelated terms never contends on the same lock. A
// separate forward map (doc id -> term frequencies) makes remove and
// replace cheap without scanning every shard.
package index

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Posting is one document's contribution to a term's postings list.
type Posting struct {
	DocID int64
	Freq  int
}

// Result is a single scored document returned from Search.
type Result struct {
	DocID int64
	Score float64
}

// TermPostings is one shard's view of a term, used by Snapshot.
type TermPostings struct {
	Term     string
	Postings []Posting
}

// Stats summarizes index size.
type Stats struct {
	Documents int
	Terms     int
	Postings  int
}

type shard struct {
	mu   sync.RWMutex
	data map[string][]Posting
}

type forwardEntry struct {
	term string
	freq int
}

// Index is a sharded, concurrency-safe inverted index.
type Index struct {
	shards []shard

	forwardMu sync.RWMutex
	forward   map[int64][]forwardEntry
}

// New builds an Index with the given shard count. A non-positive count
// is treated as 1.
func New(shardCount int) *Index {
	if shardCount <= 0 {
		shardCount = 1
	}
	idx := &Index{
		shards:  make([]shard, shardCount),
		forward: make(map[int64][]forwardEntry),
	}
	for i := range idx.shards {
		idx.shards[i].data = make(map[string][]Posting)
	}
	return idx
}

func (idx *Index) shardFor(term string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	return int(h.Sum64() % uint64(len(idx.shards)))
}

func (idx *Index) forwardCopy(docID int64) []forwardEntry {
	idx.forwardMu.RLock()
	defer idx.forwardMu.RUnlock()
	entries, ok := idx.forward[docID]
	if !ok {
		return nil
	}
	out := make([]forwardEntry, len(entries))
	copy(out, entries)
	return out
}

// RemoveDocument removes docID from the index. It is a no-op if the
// document was never indexed. Lock order: snapshot the forward entry
// under a read lock, release it, lock each affected shard in turn, and
// only then take the forward write lock to erase — never hold the
// forward lock while waiting on a shard lock.
func (idx *Index) RemoveDocument(docID int64) {
	entries := idx.forwardCopy(docID)
	if len(entries) == 0 {
		idx.forwardMu.Lock()
		delete(idx.forward, docID)
		idx.forwardMu.Unlock()
		return
	}

	byShard := make(map[int][]string)
	for _, e := range entries {
		sid := idx.shardFor(e.term)
		byShard[sid] = append(byShard[sid], e.term)
	}

	for sid, terms := range byShard {
		sh := &idx.shards[sid]
		sh.mu.Lock()
		for _, term := range terms {
			postings, ok := sh.data[term]
			if !ok {
				continue
			}
			filtered := postings[:0]
			for _, p := range postings {
				if p.DocID != docID {
					filtered = append(filtered, p)
				}
			}
			if len(filtered) == 0 {
				delete(sh.data, term)
			} else {
				sh.data[term] = filtered
			}
		}
		sh.mu.Unlock()
	}

	idx.forwardMu.Lock()
	delete(idx.forward, docID)
	idx.forwardMu.Unlock()
}

// UpsertDocument replaces docID's postings with termFreq. This is
// remove-then-insert, not atomic with respect to concurrent Search
// calls: a reader may briefly observe the document fully absent between
// the two phases.
func (idx *Index) UpsertDocument(docID int64, termFreq map[string]int) {
	idx.RemoveDocument(docID)

	entries := make([]forwardEntry, 0, len(termFreq))
	for term, freq := range termFreq {
		if freq <= 0 {
			continue
		}
		entries = append(entries, forwardEntry{term: term, freq: freq})
	}

	idx.forwardMu.Lock()
	idx.forward[docID] = entries
	idx.forwardMu.Unlock()

	byShard := make(map[int][]forwardEntry)
	for _, e := range entries {
		sid := idx.shardFor(e.term)
		byShard[sid] = append(byShard[sid], e)
	}

	for sid, es := range byShard {
		sh := &idx.shards[sid]
		sh.mu.Lock()
		for _, e := range es {
			sh.data[e.term] = append(sh.data[e.term], Posting{DocID: docID, Freq: e.freq})
		}
		sh.mu.Unlock()
	}
}

// Search scores documents by the sum of posting frequencies across
// queryTerms (repeated terms are not deduplicated — each occurrence
// contributes its own lookup), and returns up to topK results sorted by
// score descending, then doc id ascending. topK of 0 means unlimited.
func (idx *Index) Search(queryTerms []string, topK int) []Result {
	scores := make(map[int64]float64, 1024)

	for _, term := range queryTerms {
		if term == "" {
			continue
		}
		sid := idx.shardFor(term)
		sh := &idx.shards[sid]

		sh.mu.RLock()
		postings := sh.data[term]
		for _, p := range postings {
			scores[p.DocID] += float64(p.Freq)
		}
		sh.mu.RUnlock()
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		results = append(results, Result{DocID: docID, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Snapshot returns every term's postings across all shards, collected
// concurrently. No cross-shard consistency is implied: a concurrent
// upsert may or may not be reflected depending on which shard a
// collector goroutine had already read.
func (idx *Index) Snapshot(ctx context.Context) ([]TermPostings, error) {
	out := make([][]TermPostings, len(idx.shards))

	g, _ := errgroup.WithContext(ctx)
	for i := range idx.shards {
		i := i
		g.Go(func() error {
			sh := &idx.shards[i]
			sh.mu.RLock()
			defer sh.mu.RUnlock()
			local := make([]TermPostings, 0, len(sh.data))
			for term, postings := range sh.data {
				cp := make([]Posting, len(postings))
				copy(cp, postings)
				local = append(local, TermPostings{Term: term, Postings: cp})
			}
			out[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []TermPostings
	for _, part := range out {
		flat = append(flat, part...)
	}
	return flat, nil
}

// Stats reports index size. Documents is the size of the forward map
// (not the document store) — a document whose terms were all filtered
// out during upsert still counts as tracked.
func (idx *Index) Stats(ctx context.Context) (Stats, error) {
	idx.forwardMu.RLock()
	docs := len(idx.forward)
	idx.forwardMu.RUnlock()

	var mu sync.Mutex
	terms, postings := 0, 0

	g, _ := errgroup.WithContext(ctx)
	for i := range idx.shards {
		i := i
		g.Go(func() error {
			sh := &idx.shards[i]
			sh.mu.RLock()
			localTerms := len(sh.data)
			localPostings := 0
			for _, p := range sh.data {
				localPostings += len(p)
			}
			sh.mu.RUnlock()

			mu.Lock()
			terms += localTerms
			postings += localPostings
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	return Stats{Documents: docs, Terms: terms, Postings: postings}, nil
}
