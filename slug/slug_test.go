package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Hello World", want: "hello-world"},
		{name: "special characters", input: "Hello, World!", want: "hello-world"},
		{name: "underscores", input: "hello_world_test", want: "hello-world-test"},
		{name: "accents transliterated", input: "Café résumé", want: "cafe-resume"},
		{name: "consecutive separators", input: "a  --  b", want: "a-b"},
		{name: "leading and trailing", input: "---abc---", want: "abc"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateLengthLimit(t *testing.T) {
	got := Generate(strings.Repeat("a", 150))
	if len(got) != 100 {
		t.Errorf("Expected 100-char limit, got %d", len(got))
	}

	// Truncation must not leave a trailing hyphen.
	got = Generate(strings.Repeat("ab-", 50))
	if strings.HasSuffix(got, "-") {
		t.Errorf("Trailing hyphen after truncation: %q", got)
	}
}

func TestGenerateWithFallback(t *testing.T) {
	if got := GenerateWithFallback("Real Title", "fallback"); got != "real-title" {
		t.Errorf("GenerateWithFallback() = %q", got)
	}
	if got := GenerateWithFallback("!!!", "Fallback Title"); got != "fallback-title" {
		t.Errorf("GenerateWithFallback() = %q", got)
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/docs/start", "example-com-docs-start"},
		{"http://example.com", "example-com"},
		{"https://example.com/page?q=1#frag", "example-com-page"},
		{"example.com/path", "example-com-path"},
	}

	for _, tt := range tests {
		if got := FromURL(tt.input); got != tt.want {
			t.Errorf("FromURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{name: "empty uses fallback", input: "", fallback: "llms.txt", want: "llms.txt"},
		{name: "keeps txt extension", input: "my-site.txt", fallback: "llms.txt", want: "my-site.txt"},
		{name: "sanitizes", input: "My Site!.txt", fallback: "llms.txt", want: "my-site.txt"},
		{name: "adds txt extension", input: "notes", fallback: "llms.txt", want: "notes.txt"},
		{name: "symbols only uses fallback", input: "!!!", fallback: "llms.txt", want: "llms.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.input, tt.fallback); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
