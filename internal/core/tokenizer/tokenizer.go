// Package tokenizer provides a deliberately simple, ASCII-only text
// tokenizer. It does not do Unicode-aware classification, stemming, or
// stop-word removal — callers that need those run their own pass on the
// output.
package tokenizer

import "strings"

// Config controls tokenization behavior.
type Config struct {
	ToLower     bool
	MinTokenLen int
	MaxTokenLen int
	KeepDigits  bool
}

// DefaultConfig matches the baseline used across the index builder.
func DefaultConfig() Config {
	return Config{
		ToLower:     true,
		MinTokenLen: 2,
		MaxTokenLen: 64,
		KeepDigits:  true,
	}
}

// Tokenizer splits text into tokens using byte-level ASCII classification.
// It holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	cfg Config
}

// New builds a Tokenizer from cfg. A zero-value Config is not usable;
// callers that want defaults should start from DefaultConfig.
func New(cfg Config) Tokenizer {
	return Tokenizer{cfg: cfg}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (t Tokenizer) isTokenChar(c byte) bool {
	if isAlpha(c) {
		return true
	}
	if t.cfg.KeepDigits && isDigit(c) {
		return true
	}
	return false
}

func (t Tokenizer) normalize(c byte) byte {
	if t.cfg.ToLower && c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// Tokenize scans text byte by byte. Bytes outside the ASCII alpha/digit
// range (including every byte of a multi-byte UTF-8 sequence) are
// treated as separators. A token that reaches MaxTokenLen keeps
// consuming input characters without growing, so a 100-character run of
// letters with MaxTokenLen=64 still ends as a single 64-byte token, not
// two. A candidate shorter than MinTokenLen is dropped, not emitted.
func (t Tokenizer) Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/6+1)

	var cur strings.Builder
	cur.Grow(32)

	flush := func() {
		if cur.Len() >= t.cfg.MinTokenLen {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if t.isTokenChar(c) {
			if cur.Len() < t.cfg.MaxTokenLen {
				cur.WriteByte(t.normalize(c))
			}
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
