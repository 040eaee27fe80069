package inverted

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// article is the registry's record for one accepted document. It is never
// mutated after insertion.
type article struct {
	uuid   string
	url    string
	title  string
	server string
}

// articleRegistry assigns dense integer ids in insertion order and rejects
// duplicates under the URL and (server, title) rules from spec.md §4.3.
type articleRegistry struct {
	articles        []article
	seenURLs        map[string]struct{}
	seenTitleServer map[string]struct{}
}

func newArticleRegistry() *articleRegistry {
	return &articleRegistry{
		seenURLs:        make(map[string]struct{}),
		seenTitleServer: make(map[string]struct{}),
	}
}

// register assigns a new article_id for (rawURL, rawTitle), or rejects it.
// On any error the registry is left exactly as it was before the call.
func (r *articleRegistry) register(rawURL, rawTitle string) (int, error) {
	if rawURL == "" {
		return -1, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}

	keyURL := Normalize(rawURL)
	if _, dup := r.seenURLs[keyURL]; dup {
		return -1, ErrDuplicateURL
	}

	server := extractHost(rawURL)
	keyServerTitle := titleServerKey(server, rawTitle)
	if _, dup := r.seenTitleServer[keyServerTitle]; dup {
		return -1, ErrDuplicateTitleServer
	}

	id := len(r.articles)
	r.articles = append(r.articles, article{
		uuid:   uuid.NewString(),
		url:    rawURL,
		title:  rawTitle,
		server: server,
	})
	r.seenURLs[keyURL] = struct{}{}
	r.seenTitleServer[keyServerTitle] = struct{}{}
	return id, nil
}

func (r *articleRegistry) count() int {
	return len(r.articles)
}

func (r *articleRegistry) inRange(id int) bool {
	return id >= 0 && id < len(r.articles)
}

func (r *articleRegistry) title(id int) (string, error) {
	if !r.inRange(id) {
		return "", ErrNotFound
	}
	return r.articles[id].title, nil
}

func (r *articleRegistry) articleURL(id int) (string, error) {
	if !r.inRange(id) {
		return "", ErrNotFound
	}
	return r.articles[id].url, nil
}

func (r *articleRegistry) articleUUID(id int) (string, error) {
	if !r.inRange(id) {
		return "", ErrNotFound
	}
	return r.articles[id].uuid, nil
}

// titleServerKey builds the dedup key described in spec.md §6:
// normalize(server) + '|' + normalize(title).
func titleServerKey(server, title string) string {
	var b strings.Builder
	b.WriteString(Normalize(server))
	b.WriteByte('|')
	b.WriteString(Normalize(title))
	return b.String()
}

// extractHost derives the host component of a URL. Unparseable URLs yield
// an empty server, per spec.md §4.3 step 3.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
