package inverted

// posting records that a given article contains a term some number of
// times.
type posting struct {
	articleID int
	count     int
}

// termEntry holds the normalized word and its postings, in first-insertion
// order. postings is never sorted or reordered; only appended to.
type termEntry struct {
	word     string
	postings []posting
}

// bump increments the posting for articleID, appending a new one if this is
// the term's first occurrence in that article. It checks the tail first —
// the common case is a run of tokens from the same article landing on the
// same term — before falling back to a linear scan from the front. This
// never reorders postings, preserving the first-occurrence invariant.
func (e *termEntry) bump(articleID int) {
	n := len(e.postings)
	if n > 0 && e.postings[n-1].articleID == articleID {
		e.postings[n-1].count++
		return
	}
	for i := 0; i < n-1; i++ {
		if e.postings[i].articleID == articleID {
			e.postings[i].count++
			return
		}
	}
	e.postings = append(e.postings, posting{articleID: articleID, count: 1})
}

// termDictionary maps normalized terms to their postings.
type termDictionary struct {
	terms map[string]*termEntry
}

func newTermDictionary(numBuckets int) *termDictionary {
	if numBuckets <= 0 {
		numBuckets = defaultBucketCount
	}
	return &termDictionary{terms: make(map[string]*termEntry, numBuckets)}
}

// getOrCreate returns the entry for word, creating an empty one if absent.
// Callers must only pass already-normalized, non-stop-word terms.
func (d *termDictionary) getOrCreate(word string) *termEntry {
	if e, ok := d.terms[word]; ok {
		return e
	}
	e := &termEntry{word: word}
	d.terms[word] = e
	return e
}

// get returns the entry for word without creating one.
func (d *termDictionary) get(word string) (*termEntry, bool) {
	e, ok := d.terms[word]
	return e, ok
}

func (d *termDictionary) termCount() int {
	return len(d.terms)
}
