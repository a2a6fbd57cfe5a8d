package transcriber

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "bonjour à tous", "bonjour à tous"},
		{"surrounding whitespace", "  bonjour  ", "bonjour"},
		{"blank audio token", "[BLANK_AUDIO]", ""},
		{"silence token", "(SILENCE) bonjour", "bonjour"},
		{"special tokens", "<|fr|> bonjour <|endoftext|>", "fr bonjour endoftext"},
		{"ellipsis", "bonjour...", "bonjour"},
		{"only tokens", " ... [BLANK_AUDIO] ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
