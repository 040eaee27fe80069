package ingestschema

import "testing"

func TestValidateBulkIngest_Valid(t *testing.T) {
	payload := []byte(`{
		"articles": [
			{"url": "http://a.example/1", "title": "Hello", "tokens": ["hello", "world"]},
			{"url": "http://a.example/2", "title": "Other"}
		]
	}`)

	doc, err := ValidateBulkIngest(payload)
	if err != nil {
		t.Fatalf("expected valid payload, got error: %v", err)
	}
	if len(doc.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(doc.Articles))
	}
	if doc.Articles[0].URL != "http://a.example/1" {
		t.Fatalf("unexpected url: %q", doc.Articles[0].URL)
	}
	if len(doc.Articles[1].Tokens) != 0 {
		t.Fatalf("expected default empty tokens, got %v", doc.Articles[1].Tokens)
	}
}

func TestValidateBulkIngest_MissingURL(t *testing.T) {
	payload := []byte(`{"articles": [{"title": "No URL"}]}`)

	_, err := ValidateBulkIngest(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for missing url")
	}
}

func TestValidateBulkIngest_RejectsUnknownFields(t *testing.T) {
	payload := []byte(`{"articles": [{"url": "http://a.example/1", "title": "T", "extra": true}]}`)

	_, err := ValidateBulkIngest(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for unknown field")
	}
}

func TestValidateBulkIngest_EmptyPayload(t *testing.T) {
	_, err := ValidateBulkIngest(nil)
	if err == nil {
		t.Fatalf("expected validation to fail for empty payload")
	}
}

func TestValidateBulkIngest_TrailingContent(t *testing.T) {
	payload := []byte(`{"articles": []}{}`)

	_, err := ValidateBulkIngest(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for trailing content")
	}
}
