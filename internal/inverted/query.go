package inverted

import "sort"

// Result is one row of a QueryTopN answer: an article and how many times
// the queried term occurs in it. Results carry no strings, so they are
// freely copyable.
type Result struct {
	ArticleID int
	Count     int
}

// rank orders postings by the strict total order from spec.md §4.5: higher
// count first, lower article_id breaking ties. article_id is unique within
// a term's postings, so this order is total.
func rank(postings []posting) []Result {
	rows := make([]Result, len(postings))
	for i, p := range postings {
		rows[i] = Result{ArticleID: p.articleID, Count: p.count}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].ArticleID < rows[j].ArticleID
	})
	return rows
}

// queryTopN implements the five-step algorithm from spec.md §4.5: empty
// term or n<=0 yields nothing, an absent term yields nothing (stop words
// transparently fall into this case, since they never get a term entry),
// otherwise the postings are ranked and truncated to n.
func queryTopN(dict *termDictionary, term string, n int) []Result {
	if term == "" || n <= 0 {
		return []Result{}
	}

	entry, ok := dict.get(Normalize(term))
	if !ok {
		return []Result{}
	}

	rows := rank(entry.postings)
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
