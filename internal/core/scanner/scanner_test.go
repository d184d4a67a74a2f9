package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScanMissingRootReturnsEmpty(t *testing.T) {
	s := New(DefaultConfig())
	got := s.Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if len(got) != 0 {
		t.Fatalf("Scan of missing root = %v, want empty", got)
	}
}

func TestScanRootIsFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "a.txt", "hi")
	s := New(DefaultConfig())
	got := s.Scan(f)
	if len(got) != 0 {
		t.Fatalf("Scan of a non-directory root = %v, want empty", got)
	}
}

func TestScanOnlyTxtFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "1")
	writeFile(t, dir, "b.TXT", "2")
	writeFile(t, dir, "c.md", "3")

	s := New(Config{Recursive: true, OnlyTxt: true})
	got := s.Scan(dir)
	if len(got) != 2 {
		t.Fatalf("Scan = %v, want 2 .txt files", got)
	}
}

func TestScanRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "1")
	writeFile(t, dir, "nested/deep.txt", "2")

	s := New(Config{Recursive: true, OnlyTxt: true})
	got := s.Scan(dir)
	if len(got) != 2 {
		t.Fatalf("recursive Scan = %v, want 2", got)
	}
}

func TestScanNonRecursiveSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "1")
	writeFile(t, dir, "nested/deep.txt", "2")

	s := New(Config{Recursive: false, OnlyTxt: true})
	got := s.Scan(dir)
	if len(got) != 1 || filepath.Base(got[0].Path) != "top.txt" {
		t.Fatalf("non-recursive Scan = %v, want just top.txt", got)
	}
}

func TestScanResultIsSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.txt", "3")
	writeFile(t, dir, "a.txt", "1")
	writeFile(t, dir, "b.txt", "2")

	s := New(Config{Recursive: true, OnlyTxt: true})
	got := s.Scan(dir)
	for i := 1; i < len(got); i++ {
		if got[i-1].Path >= got[i].Path {
			t.Fatalf("Scan result not sorted: %v", got)
		}
	}
}

func TestScanMaxFilesCapsResult(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, dir, string(rune('a'+i))+".txt", "x")
	}
	s := New(Config{Recursive: true, OnlyTxt: true, MaxFiles: 3})
	got := s.Scan(dir)
	if len(got) > 3 {
		t.Fatalf("Scan with MaxFiles=3 returned %d files", len(got))
	}
}
