// Package query implements the facade between a raw query string and
// scored, path-resolved search results: tokenize, search the index,
// join doc ids back to paths via the document store, optionally
// through a result cache.
package query

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/docstore"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/searchcache"
)

// DefaultTopK is used when a caller does not specify a result count.
const DefaultTopK = 20

// Hit is a single scored, path-resolved search result.
type Hit struct {
	DocID int64   `json:"doc_id"`
	Score float64 `json:"score"`
	Path  string  `json:"path"`
}

// Response is the full result of a Search call, including the terms
// the query tokenized to.
type Response struct {
	Terms []string
	Hits  []Hit
}

// Service ties a Tokenizer, an Index, and a DocumentStore together,
// optionally fronted by a search-result cache.
type Service struct {
	idx   *index.Index
	store *docstore.Store
	tok   tokenizer.Tokenizer
	cache *searchcache.Cache
}

// New builds a Service. cache may be nil or disabled, in which case
// every search computes directly against the index.
func New(idx *index.Index, store *docstore.Store, tok tokenizer.Tokenizer, cache *searchcache.Cache) *Service {
	return &Service{idx: idx, store: store, tok: tok, cache: cache}
}

// Stats returns the current index size summary.
func (s *Service) Stats(ctx context.Context) (index.Stats, error) {
	return s.idx.Stats(ctx)
}

// Search tokenizes q, searches the index for the top topK documents,
// and resolves each doc id to its path. topK is passed through as
// given — topK <= 0 means "no limit" and is the caller's choice to
// make; HTTP callers get DefaultTopK applied at the handler instead.
func (s *Service) Search(ctx context.Context, q string, topK int) Response {
	terms := s.tok.Tokenize(q)

	compute := func() []index.Result {
		return s.idx.Search(terms, topK)
	}

	var results []index.Result
	if s.cache != nil && s.cache.Enabled() {
		results = s.cache.GetOrCompute(ctx, terms, topK, compute)
	} else {
		results = compute()
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		path, _ := s.store.PathFor(r.DocID)
		hits = append(hits, Hit{DocID: r.DocID, Score: r.Score, Path: path})
	}

	return Response{Terms: terms, Hits: hits}
}
