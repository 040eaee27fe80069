package ingest

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "Hello world", []string{"Hello", "world"}},
		{"punctuation", "Cats, dogs! And fish.", []string{"Cats", "dogs", "And", "fish"}},
		{"numbers kept", "GPT4 release", []string{"GPT4", "release"}},
		{"hyphen splits", "well-known fact", []string{"well", "known", "fact"}},
		{"only punctuation", "...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
