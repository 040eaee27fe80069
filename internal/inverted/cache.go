package inverted

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// cacheKey identifies one QueryTopN call.
type cacheKey struct {
	term string
	n    int
}

// CachingEngine wraps an Index with a bounded LRU cache over QueryTopN.
// It is an outer optimization, never a correctness requirement: spec.md §5
// permits implementers to add a wrapper like this on top of the
// single-writer facade. Every mutating call drops the whole cache rather
// than trying to invalidate individual entries, which keeps query results
// trivially consistent with the determinism law in spec.md §8.
type CachingEngine struct {
	idx   *Index
	cache *lru.Cache[cacheKey, []Result]
}

// NewCachingEngine wraps idx with an LRU cache holding up to size recent
// QueryTopN answers. A nonpositive size falls back to a fixed default.
func NewCachingEngine(idx *Index, size int) *CachingEngine {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[cacheKey, []Result](size)
	if err != nil {
		// Only returns an error for a nonpositive size, which is excluded above.
		panic(err)
	}
	return &CachingEngine{idx: idx, cache: cache}
}

func (c *CachingEngine) invalidate() {
	c.cache.Purge()
}

// RegisterArticle delegates to the wrapped index and invalidates the cache
// on success, since a newly-accepted article can change future rankings.
func (c *CachingEngine) RegisterArticle(url, title string) (int, error) {
	id, err := c.idx.RegisterArticle(url, title)
	if err == nil {
		c.invalidate()
	}
	return id, err
}

// AddToken delegates to the wrapped index and unconditionally invalidates
// the cache, since AddToken never reports whether it was a no-op.
func (c *CachingEngine) AddToken(articleID int, token string) {
	c.idx.AddToken(articleID, token)
	c.invalidate()
}

// QueryTopN answers from cache when (term, n) was asked before since the
// last mutation, otherwise delegates and caches the result.
func (c *CachingEngine) QueryTopN(term string, n int) []Result {
	key := cacheKey{term: Normalize(term), n: n}
	if rows, ok := c.cache.Get(key); ok {
		return rows
	}
	rows := c.idx.QueryTopN(term, n)
	c.cache.Add(key, rows)
	return rows
}

// LoadStopWords delegates and invalidates the cache, since loaded stop
// words change which terms ever reach the dictionary going forward.
func (c *CachingEngine) LoadStopWords(src StopWordSource) error {
	err := c.idx.LoadStopWords(src)
	c.invalidate()
	return err
}

func (c *CachingEngine) IsStopWord(s string) bool            { return c.idx.IsStopWord(s) }
func (c *CachingEngine) GetArticleTitle(id int) (string, error) { return c.idx.GetArticleTitle(id) }
func (c *CachingEngine) GetArticleUrl(id int) (string, error)   { return c.idx.GetArticleUrl(id) }
func (c *CachingEngine) GetArticleUUID(id int) (string, error)  { return c.idx.GetArticleUUID(id) }
func (c *CachingEngine) ArticleCount() int                      { return c.idx.ArticleCount() }
func (c *CachingEngine) TermCount() int                         { return c.idx.TermCount() }
func (c *CachingEngine) Stats() Stats                           { return c.idx.Stats() }

// Close releases the wrapped index and drops the cache.
func (c *CachingEngine) Close() {
	c.idx.Close()
	c.cache.Purge()
}
