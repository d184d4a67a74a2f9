package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/docstore"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/scanner"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/tokenizer"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newBuilder() (*Builder, *index.Index, *docstore.Store) {
	idx := index.New(8)
	store := docstore.New()
	b := New(idx, store, tokenizer.New(tokenizer.DefaultConfig()))
	return b, idx, store
}

func TestBuildFromDirectoryIndexesAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world")
	writeFile(t, dir, "b.txt", "hello go")

	b, idx, _ := newBuilder()
	res := b.BuildFromDirectory(dir, 4)

	if res.ScannedFiles != 2 || res.IndexedFiles != 2 || res.Errors != 0 {
		t.Fatalf("Result = %+v, want scanned=2 indexed=2 errors=0", res)
	}
	got := idx.Search([]string{"hello"}, 10)
	if len(got) != 2 {
		t.Fatalf("Search(hello) = %v, want 2 docs", got)
	}
}

func TestBuildIsThreadCountIndependent(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, string(rune('a'+i))+".txt", "shared term number")
	}

	b1, idx1, _ := newBuilder()
	b1.BuildFromDirectory(dir, 1)
	s1, _ := idx1.Stats(context.Background())

	b2, idx2, _ := newBuilder()
	b2.BuildFromDirectory(dir, 8)
	s2, _ := idx2.Stats(context.Background())

	if s1 != s2 {
		t.Fatalf("stats diverge by thread count: threads=1 -> %+v, threads=8 -> %+v", s1, s2)
	}
}

func TestUpdateFromDirectorySkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")

	b, _, store := newBuilder()
	first := b.BuildFromDirectory(dir, 2)
	if first.IndexedFiles != 1 {
		t.Fatalf("first build indexed=%d, want 1", first.IndexedFiles)
	}

	second := b.UpdateFromDirectory(dir, 2)
	if second.SkippedFiles != 1 || second.IndexedFiles != 0 {
		t.Fatalf("second update = %+v, want all skipped", second)
	}
	if store.Size() != 1 {
		t.Fatalf("store size = %d, want 1", store.Size())
	}
}

func TestUpdateFromDirectoryReindexesModifiedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "version one")

	b, idx, _ := newBuilder()
	b.BuildFromDirectory(dir, 2)

	// Force a strictly newer mtime so NeedsIndexing reports true.
	future := time.Now().Add(time.Hour)
	writeFile(t, dir, "a.txt", "version two")
	if err := os.Chtimes(filepath.Join(dir, "a.txt"), future, future); err != nil {
		t.Fatal(err)
	}

	res := b.UpdateFromDirectory(dir, 2)
	if res.IndexedFiles != 1 {
		t.Fatalf("update result = %+v, want 1 reindexed file", res)
	}
	if got := idx.Search([]string{"two"}, 10); len(got) != 1 {
		t.Fatalf("expected updated content indexed, got %v", got)
	}
}

func TestIndexFilesCountsUnreadableFilesAsErrors(t *testing.T) {
	dir := t.TempDir()
	b, _, _ := newBuilder()

	files := b.IndexFiles(nil, 2, false)
	if files.ScannedFiles != 0 {
		t.Fatalf("empty file list should scan 0, got %d", files.ScannedFiles)
	}

	missing := []scanner.FileInfo{{Path: filepath.Join(dir, "missing.txt"), MTime: time.Now()}}
	res := b.IndexFiles(missing, 2, false)
	if res.ScannedFiles != 1 || res.Errors != 1 || res.IndexedFiles != 0 {
		t.Fatalf("Result = %+v, want scanned=1 errors=1 indexed=0", res)
	}
}
