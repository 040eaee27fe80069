// Package inverted implements the in-memory inverted-index engine: it
// ingests (article, token) events and answers frequency-ranked term
// queries. It owns all mutable state and is not safe for concurrent use —
// callers needing concurrent access must add their own synchronization
// around an Index, the way the rest of this codebase wraps shared state
// with a single owner.
package inverted

import "fmt"

// defaultBucketCount is used when NewIndex is called with a nonpositive
// bucket count, per spec.md §4.6.
const defaultBucketCount = 10007

// Index is the composed facade owning the article registry, stop-word
// filter, and term dictionary. A zero Index is not usable; construct one
// with NewIndex.
type Index struct {
	articles  *articleRegistry
	stopWords *stopWordSet
	terms     *termDictionary
	closed    bool
}

// NewIndex constructs an empty index. numBuckets is a capacity hint for the
// term dictionary; nonpositive values fall back to a fixed prime.
func NewIndex(numBuckets int) *Index {
	return &Index{
		articles:  newArticleRegistry(),
		stopWords: newStopWordSet(),
		terms:     newTermDictionary(numBuckets),
	}
}

// Close releases the index's state. No operation on an Index is valid
// after Close; Close itself is idempotent.
func (idx *Index) Close() {
	if idx == nil || idx.closed {
		return
	}
	idx.closed = true
	idx.articles = nil
	idx.stopWords = nil
	idx.terms = nil
}

// LoadStopWords consumes src to completion, inserting normalize(word) for
// each nonempty word it yields. A failing source aborts the load but
// leaves the set containing whatever was inserted before the failure.
func (idx *Index) LoadStopWords(src StopWordSource) error {
	if idx == nil || idx.closed {
		return ErrIndexClosed
	}
	return idx.stopWords.load(src)
}

// IsStopWord reports whether normalize(s) is a loaded stop word.
func (idx *Index) IsStopWord(s string) bool {
	if idx == nil || idx.closed {
		return false
	}
	return idx.stopWords.contains(s)
}

// RegisterArticle assigns a dense article_id to (url, title), or rejects
// it under the URL / (server, title) dedup rules. On any rejection or
// error it returns -1 and the index is left unchanged.
func (idx *Index) RegisterArticle(url, title string) (int, error) {
	if idx == nil || idx.closed {
		return -1, ErrIndexClosed
	}
	return idx.articles.register(url, title)
}

// GetArticleTitle returns the title stored for article_id, or ErrNotFound.
func (idx *Index) GetArticleTitle(articleID int) (string, error) {
	if idx == nil || idx.closed {
		return "", ErrNotFound
	}
	return idx.articles.title(articleID)
}

// GetArticleUrl returns the URL stored for article_id, or ErrNotFound.
func (idx *Index) GetArticleUrl(articleID int) (string, error) {
	if idx == nil || idx.closed {
		return "", ErrNotFound
	}
	return idx.articles.articleURL(articleID)
}

// GetArticleUUID returns the UUID stamped on article_id at registration
// time. This is ambient metadata, not part of the core data model in
// spec.md §3; see SPEC_FULL.md's domain stack section.
func (idx *Index) GetArticleUUID(articleID int) (string, error) {
	if idx == nil || idx.closed {
		return "", ErrNotFound
	}
	return idx.articles.articleUUID(articleID)
}

// AddToken records one occurrence of token in article_id. Per spec.md
// §4.4, an out-of-range article_id, an empty token, or a stop word are all
// silent no-ops — there is nothing to report to the caller.
func (idx *Index) AddToken(articleID int, token string) {
	if idx == nil || idx.closed {
		return
	}
	if !idx.articles.inRange(articleID) || token == "" {
		return
	}

	word := Normalize(token)
	if idx.stopWords.contains(word) {
		return
	}

	entry := idx.terms.getOrCreate(word)
	entry.bump(articleID)
}

// QueryTopN ranks term's postings by descending count, ascending
// article_id on ties, and returns at most n rows. Any disqualifying input
// — an empty term, n<=0, an unknown term, or a closed index — yields an
// empty (never nil) result.
func (idx *Index) QueryTopN(term string, n int) []Result {
	if idx == nil || idx.closed {
		return []Result{}
	}
	return queryTopN(idx.terms, term, n)
}

// ArticleCount returns the number of accepted articles.
func (idx *Index) ArticleCount() int {
	if idx == nil || idx.closed {
		return 0
	}
	return idx.articles.count()
}

// TermCount returns the number of distinct indexed terms.
func (idx *Index) TermCount() int {
	if idx == nil || idx.closed {
		return 0
	}
	return idx.terms.termCount()
}

// Stats is a snapshot of index-wide counters, used by the stats CLI command
// and the /stats HTTP endpoint.
type Stats struct {
	Articles int `json:"articles"`
	Terms    int `json:"terms"`
}

// Stats returns a snapshot of the index's size.
func (idx *Index) Stats() Stats {
	return Stats{Articles: idx.ArticleCount(), Terms: idx.TermCount()}
}

func (idx *Index) String() string {
	if idx == nil {
		return "inverted.Index(nil)"
	}
	return fmt.Sprintf("inverted.Index(articles=%d, terms=%d)", idx.ArticleCount(), idx.TermCount())
}
