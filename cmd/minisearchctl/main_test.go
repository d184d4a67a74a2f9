package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPopOptExtractsValueAndRemovesIt(t *testing.T) {
	v, rest, found := popOpt([]string{"--q", "hello", "--topk", "5"}, "--q")
	if !found || v != "hello" {
		t.Fatalf("popOpt = (%q,%v), want (hello,true)", v, found)
	}
	if strings.Join(rest, " ") != "--topk 5" {
		t.Fatalf("rest = %v, want [--topk 5]", rest)
	}
}

func TestRunMissingArgsReturnsUsageExitCode(t *testing.T) {
	if code := run(nil); code != exitUsage {
		t.Fatalf("run(nil) = %d, want %d", code, exitUsage)
	}
}

func TestRunSearchMissingQReturnsMissingExitCode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	host, port := splitHostPort(t, srv.URL)

	code := run([]string{"--host", host, "--port", port, "search"})
	if code != exitMissing {
		t.Fatalf("run search with no --q = %d, want %d", code, exitMissing)
	}
}

func TestRunStatusSucceedsAgainstLiveServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()
	host, port := splitHostPort(t, srv.URL)

	code := run([]string{"--host", host, "--port", port, "status"})
	if code != exitOK {
		t.Fatalf("run status = %d, want %d", code, exitOK)
	}
}

func splitHostPort(t *testing.T, rawURL string) (host, port string) {
	t.Helper()
	rawURL = strings.TrimPrefix(rawURL, "http://")
	parts := strings.SplitN(rawURL, ":", 2)
	if len(parts) != 2 {
		t.Fatalf("unexpected test server URL: %s", rawURL)
	}
	return parts[0], parts[1]
}
