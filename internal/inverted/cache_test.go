package inverted

import "testing"

func TestCachingEngineServesRepeatedQueryFromCache(t *testing.T) {
	t.Parallel()

	idx := NewIndex(0)
	eng := NewCachingEngine(idx, 0)

	id, err := eng.RegisterArticle("http://a/1", "T")
	if err != nil {
		t.Fatalf("RegisterArticle failed: %v", err)
	}
	eng.AddToken(id, "cat")
	eng.AddToken(id, "cat")

	first := eng.QueryTopN("CAT", 5)
	second := eng.QueryTopN("cat", 5)
	if got := eng.cache.Len(); got != 1 {
		t.Fatalf("cache entries = %d, want 1 (second query should hit the first's entry)", got)
	}
	assertResults(t, first, []Result{{ArticleID: id, Count: 2}})
	assertResults(t, second, []Result{{ArticleID: id, Count: 2}})
}

func TestCachingEngineInvalidatesOnMutation(t *testing.T) {
	t.Parallel()

	idx := NewIndex(0)
	eng := NewCachingEngine(idx, 0)

	id, _ := eng.RegisterArticle("http://a/1", "T")
	eng.AddToken(id, "cat")

	_ = eng.QueryTopN("cat", 5)

	eng.AddToken(id, "cat")
	got := eng.QueryTopN("cat", 5)
	assertResults(t, got, []Result{{ArticleID: id, Count: 2}})
}

func TestCachingEngineDistinguishesQueryShapes(t *testing.T) {
	t.Parallel()

	idx := NewIndex(0)
	eng := NewCachingEngine(idx, 0)

	a, _ := eng.RegisterArticle("http://a/1", "A")
	b, _ := eng.RegisterArticle("http://a/2", "B")
	eng.AddToken(a, "x")
	eng.AddToken(b, "x")
	eng.AddToken(b, "x")

	top1 := eng.QueryTopN("x", 1)
	top2 := eng.QueryTopN("x", 2)
	assertResults(t, top1, []Result{{ArticleID: b, Count: 2}})
	assertResults(t, top2, []Result{{ArticleID: b, Count: 2}, {ArticleID: a, Count: 1}})
}
