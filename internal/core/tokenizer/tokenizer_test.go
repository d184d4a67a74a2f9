package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tok := New(DefaultConfig())
	got := tok.Tokenize("The Quick-Brown Fox, jumps over 2 lazy dogs.")
	want := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dogs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeMinLenDrops(t *testing.T) {
	tok := New(Config{ToLower: true, MinTokenLen: 3, MaxTokenLen: 64, KeepDigits: true})
	got := tok.Tokenize("a ab abc")
	want := []string{"abc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeMaxLenTruncatesButKeepsConsuming(t *testing.T) {
	tok := New(Config{ToLower: true, MinTokenLen: 1, MaxTokenLen: 5, KeepDigits: true})
	got := tok.Tokenize("abcdefghij")
	if len(got) != 1 || got[0] != "abcde" {
		t.Fatalf("Tokenize() = %v, want single 5-byte token", got)
	}
}

func TestTokenizeKeepDigitsFalse(t *testing.T) {
	tok := New(Config{ToLower: true, MinTokenLen: 1, MaxTokenLen: 64, KeepDigits: false})
	got := tok.Tokenize("abc123def")
	want := []string{"abc", "def"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeASCIIOnlyTreatsMultibyteAsSeparator(t *testing.T) {
	tok := New(DefaultConfig())
	got := tok.Tokenize("caf\xc3\xa9 bar")
	want := []string{"caf", "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	tok := New(DefaultConfig())
	if got := tok.Tokenize(""); len(got) != 0 {
		t.Fatalf("Tokenize(\"\") = %v, want empty", got)
	}
}

func TestTokenizeEndOfInputEmitsPendingToken(t *testing.T) {
	tok := New(DefaultConfig())
	got := tok.Tokenize("trailing")
	if !reflect.DeepEqual(got, []string{"trailing"}) {
		t.Fatalf("Tokenize() = %v, want [trailing]", got)
	}
}

func TestTokenizeNoCaseFolding(t *testing.T) {
	tok := New(Config{ToLower: false, MinTokenLen: 1, MaxTokenLen: 64, KeepDigits: true})
	got := tok.Tokenize("ABC abc")
	want := []string{"ABC", "abc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeLongDocumentHasNoStopWordFiltering(t *testing.T) {
	tok := New(DefaultConfig())
	text := strings.Repeat("the ", 5)
	got := tok.Tokenize(text)
	if len(got) != 5 {
		t.Fatalf("expected 5 occurrences of 'the' with no stop-word filtering, got %v", got)
	}
}
