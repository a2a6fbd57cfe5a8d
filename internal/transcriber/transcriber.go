package transcriber

import (
	"context"
	"strings"
)

type Segment struct {
	Start float64
	End   float64
	Text  string
}

type Result struct {
	Text     string
	Segments []Segment
}

// Transcriber is the speech-to-text engine contract. Implementations must be
// deterministic for identical input (no sampling randomness) and safe for
// concurrent use by multiple workers.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*Result, error)
}

// Placeholder tokens some engines emit for silence or blank audio.
var placeholderTokens = []string{"<|", "|>", "[BLANK_AUDIO]", "(SILENCE)", "..."}

// CleanText strips known engine placeholder tokens and surrounding
// whitespace. The result may be empty, never meaningfully partial.
func CleanText(text string) string {
	for _, token := range placeholderTokens {
		text = strings.ReplaceAll(text, token, "")
	}
	return strings.TrimSpace(text)
}
