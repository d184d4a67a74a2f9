// Package scanner walks a directory tree and produces a deterministic,
// sorted list of files to index.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one file found by a scan.
type FileInfo struct {
	Path      string
	MTime     time.Time
	SizeBytes int64
}

// Config controls scan behavior.
type Config struct {
	Recursive bool
	OnlyTxt   bool
	MaxFiles  int // 0 = no limit
}

// DefaultConfig matches the baseline used by the index builder.
func DefaultConfig() Config {
	return Config{Recursive: true, OnlyTxt: true, MaxFiles: 0}
}

// Scanner scans directories for files to index.
type Scanner struct {
	cfg Config
}

// New builds a Scanner from cfg.
func New(cfg Config) Scanner {
	return Scanner{cfg: cfg}
}

func (s Scanner) accept(path string, info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	if !s.cfg.OnlyTxt {
		return true
	}
	return strings.ToLower(filepath.Ext(path)) == ".txt"
}

// Scan returns every matching file under rootDir, sorted lexicographically
// by path. A missing root, or a root that is not a directory, yields an
// empty (not an error) result — matching the teacher's "absence is not
// failure" convention for read-only discovery operations.
func (s Scanner) Scan(rootDir string) []FileInfo {
	rootInfo, err := os.Stat(rootDir)
	if err != nil || !rootInfo.IsDir() {
		return nil
	}

	var out []FileInfo
	push := func(path string, info os.FileInfo) bool {
		if s.cfg.MaxFiles > 0 && len(out) >= s.cfg.MaxFiles {
			return false
		}
		if !s.accept(path, info) {
			return true
		}
		out = append(out, FileInfo{Path: path, MTime: info.ModTime(), SizeBytes: info.Size()})
		return true
	}

	if s.cfg.Recursive {
		_ = filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if s.cfg.MaxFiles > 0 && len(out) >= s.cfg.MaxFiles {
				return filepath.SkipDir
			}
			if !push(path, info) {
				return filepath.SkipDir
			}
			return nil
		})
	} else {
		entries, err := os.ReadDir(rootDir)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if s.cfg.MaxFiles > 0 && len(out) >= s.cfg.MaxFiles {
				break
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			push(filepath.Join(rootDir, entry.Name()), info)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
