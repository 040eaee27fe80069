package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"horse.fit/newsindex/internal/inverted"
)

type fakeEngine struct {
	titles       map[int]string
	urls         map[int]string
	registerErr  error
	nextID       int
	queryResults []inverted.Result
	addedTokens  map[int][]string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		titles:      map[int]string{},
		urls:        map[int]string{},
		addedTokens: map[int][]string{},
	}
}

func (f *fakeEngine) RegisterArticle(url, title string) (int, error) {
	if f.registerErr != nil {
		return -1, f.registerErr
	}
	id := f.nextID
	f.nextID++
	f.titles[id] = title
	f.urls[id] = url
	return id, nil
}

func (f *fakeEngine) AddToken(articleID int, token string) {
	f.addedTokens[articleID] = append(f.addedTokens[articleID], token)
}

func (f *fakeEngine) QueryTopN(term string, n int) []inverted.Result {
	return f.queryResults
}

func (f *fakeEngine) GetArticleTitle(articleID int) (string, error) {
	title, ok := f.titles[articleID]
	if !ok {
		return "", inverted.ErrNotFound
	}
	return title, nil
}

func (f *fakeEngine) GetArticleUrl(articleID int) (string, error) {
	url, ok := f.urls[articleID]
	if !ok {
		return "", inverted.ErrNotFound
	}
	return url, nil
}

func (f *fakeEngine) GetArticleUUID(articleID int) (string, error) {
	if _, ok := f.titles[articleID]; !ok {
		return "", inverted.ErrNotFound
	}
	return "fake-uuid", nil
}

func (f *fakeEngine) Stats() inverted.Stats {
	return inverted.Stats{Articles: len(f.titles), Terms: 0}
}

func newTestServer(engine Engine) *Server {
	return NewServer(engine, zerolog.Nop(), Options{})
}

func doRequest(t *testing.T, srv *Server, handler func(echo.Context) error, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandleQueryRequiresTerm(t *testing.T) {
	engine := newFakeEngine()
	srv := newTestServer(engine)

	rec := doRequest(t, srv, srv.handleQuery, http.MethodGet, "/api/v1/query", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleQueryReturnsResults(t *testing.T) {
	engine := newFakeEngine()
	engine.queryResults = []inverted.Result{{ArticleID: 0, Count: 3}}
	srv := newTestServer(engine)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/query?term=cat&n=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := srv.handleQuery(c); err != nil {
		t.Fatalf("handleQuery returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("status field = %q, want success", resp.Status)
	}
}

func TestHandleRegisterArticleValidatesBody(t *testing.T) {
	engine := newFakeEngine()
	srv := newTestServer(engine)

	rec := doRequest(t, srv, srv.handleRegisterArticle, http.MethodPost, "/api/v1/articles", []byte(`{"title":"no url"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleRegisterArticleSucceeds(t *testing.T) {
	engine := newFakeEngine()
	srv := newTestServer(engine)

	body := []byte(`{"url":"http://a.example/1","title":"Hello"}`)
	rec := doRequest(t, srv, srv.handleRegisterArticle, http.MethodPost, "/api/v1/articles", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if engine.nextID != 1 {
		t.Fatalf("expected one article registered, got nextID=%d", engine.nextID)
	}
}

func TestHandleRegisterArticleDuplicate(t *testing.T) {
	engine := newFakeEngine()
	engine.registerErr = inverted.ErrDuplicateURL
	srv := newTestServer(engine)

	body := []byte(`{"url":"http://a.example/1","title":"Hello"}`)
	rec := doRequest(t, srv, srv.handleRegisterArticle, http.MethodPost, "/api/v1/articles", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandleGetArticleNotFound(t *testing.T) {
	engine := newFakeEngine()
	srv := newTestServer(engine)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := srv.handleGetArticle(c); err != nil {
		t.Fatalf("handleGetArticle returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleAddTokensRequiresKnownArticle(t *testing.T) {
	engine := newFakeEngine()
	srv := newTestServer(engine)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/7/tokens", bytes.NewReader([]byte(`{"tokens":["x"]}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := srv.handleAddTokens(c); err != nil {
		t.Fatalf("handleAddTokens returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleAddTokensSucceeds(t *testing.T) {
	engine := newFakeEngine()
	id, _ := engine.RegisterArticle("http://a.example/1", "T")
	srv := newTestServer(engine)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/0/tokens", bytes.NewReader([]byte(`{"tokens":["a","b"]}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("0")

	if err := srv.handleAddTokens(c); err != nil {
		t.Fatalf("handleAddTokens returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if len(engine.addedTokens[id]) != 2 {
		t.Fatalf("expected 2 tokens recorded, got %v", engine.addedTokens[id])
	}
}
