// Package builder orchestrates a directory scan, tokenization, and
// index population across a pool of worker goroutines, producing a
// thread-count-independent final index state.
package builder

import (
	"os"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/docstore"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/scanner"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/workerpool"
)

// Result summarizes one build or incremental update pass.
type Result struct {
	ScannedFiles int
	IndexedFiles int
	SkippedFiles int
	Errors       int
	ElapsedMs    int64
}

// Builder ties together a DocumentStore, an Index, and a Tokenizer to
// turn a directory of files into index entries.
type Builder struct {
	idx     *index.Index
	store   *docstore.Store
	tok     tokenizer.Tokenizer
	scanner scanner.Scanner
}

// New builds a Builder over idx and store, tokenizing with tok. Files
// are discovered with the scanner's default configuration (recursive,
// .txt-only, no cap).
func New(idx *index.Index, store *docstore.Store, tok tokenizer.Tokenizer) *Builder {
	return &Builder{
		idx:     idx,
		store:   store,
		tok:     tok,
		scanner: scanner.New(scanner.DefaultConfig()),
	}
}

// Index returns the underlying index being populated, for callers that
// need to read its stats without owning a separate reference to it.
func (b *Builder) Index() *index.Index {
	return b.idx
}

// BuildFromDirectory indexes every matching file under rootDir,
// regardless of whether it was indexed before.
func (b *Builder) BuildFromDirectory(rootDir string, threads int) Result {
	files := b.scanner.Scan(rootDir)
	return b.IndexFiles(files, threads, false)
}

// UpdateFromDirectory indexes only files that are new or whose mtime
// has advanced since the last pass.
func (b *Builder) UpdateFromDirectory(rootDir string, threads int) Result {
	files := b.scanner.Scan(rootDir)
	return b.IndexFiles(files, threads, true)
}

func makeTermFreq(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens)/2+16)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		tf[tok]++
	}
	return tf
}

// IndexFiles indexes an explicit file list across a pool of threads
// workers. When incremental is true, files that DocumentStore reports
// as not needing indexing are skipped rather than re-read. Per-file
// failures (unreadable file, panic inside a task) are counted in
// Result.Errors and never abort the remaining files.
func (b *Builder) IndexFiles(files []scanner.FileInfo, threads int, incremental bool) Result {
	start := time.Now()
	if threads < 1 {
		threads = 1
	}

	pool := workerpool.New(threads, len(files)+1)

	var aggMu sync.Mutex
	var indexed, skipped, errCount int

	channels := make([]<-chan taskOutcome, 0, len(files))
	for _, fi := range files {
		fi := fi
		ch, err := workerpool.Submit(pool, func() (o taskOutcome) {
			defer func() {
				if recover() != nil {
					o = taskOutcome{failed: true}
				}
			}()
			return b.indexOne(fi, incremental)
		})
		if err != nil {
			// Pool already closed; treat as an error for this file.
			channels = append(channels, nil)
			aggMu.Lock()
			errCount++
			aggMu.Unlock()
			continue
		}
		channels = append(channels, ch)
	}

	for _, ch := range channels {
		if ch == nil {
			continue
		}
		o := <-ch
		aggMu.Lock()
		switch {
		case o.failed:
			errCount++
		case o.skipped:
			skipped++
		case o.indexed:
			indexed++
		}
		aggMu.Unlock()
	}

	pool.Shutdown()

	return Result{
		ScannedFiles: len(files),
		IndexedFiles: indexed,
		SkippedFiles: skipped,
		Errors:       errCount,
		ElapsedMs:    time.Since(start).Milliseconds(),
	}
}

type taskOutcome = struct {
	indexed bool
	skipped bool
	failed  bool
}

func (b *Builder) indexOne(fi scanner.FileInfo, incremental bool) taskOutcome {
	if incremental && !b.store.NeedsIndexing(fi.Path, fi.MTime) {
		return taskOutcome{skipped: true}
	}

	data, err := os.ReadFile(fi.Path)
	if err != nil {
		return taskOutcome{failed: true}
	}

	tokens := b.tok.Tokenize(string(data))
	tf := makeTermFreq(tokens)

	docID, _ := b.store.GetOrCreate(fi.Path, fi.MTime)
	b.idx.UpsertDocument(docID, tf)
	b.store.UpdateMTime(fi.Path, fi.MTime)

	return taskOutcome{indexed: true}
}
