package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sanzcloud-web/Whisper/internal/transcriber"
)

const fileTimeLayout = "20060102_150405"

type fileSession struct {
	Timestamp  string  `json:"timestamp"`
	SourceFile string  `json:"source_file"`
	Model      string  `json:"model"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration"`
}

type fileSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type fileTranscription struct {
	FullText string        `json:"full_text"`
	Segments []fileSegment `json:"segments"`
}

type fileRecord struct {
	Session       fileSession       `json:"session"`
	Transcription fileTranscription `json:"transcription"`
}

// FileOutput describes the artifacts written for one transcribed file.
type FileOutput struct {
	JSONPath     string
	TXTPath      string
	Duration     float64
	SegmentCount int
}

// WriteFileResult persists a single-file transcription as a JSON record with
// per-segment timings plus a plain-text dump of the full transcript. Both
// files share the base name of the source file suffixed with a timestamp.
func WriteFileResult(dir, sourcePath, model, language string, result *transcriber.Result, now time.Time) (*FileOutput, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	stem := fmt.Sprintf("%s_%s", base, now.Format(fileTimeLayout))

	segments := make([]fileSegment, 0, len(result.Segments))
	var duration float64
	for _, s := range result.Segments {
		segments = append(segments, fileSegment{Start: s.Start, End: s.End, Text: s.Text})
		if s.End > duration {
			duration = s.End
		}
	}

	record := fileRecord{
		Session: fileSession{
			Timestamp:  now.Format(time.RFC3339),
			SourceFile: sourcePath,
			Model:      model,
			Language:   language,
			Duration:   duration,
		},
		Transcription: fileTranscription{
			FullText: result.Text,
			Segments: segments,
		},
	}

	jsonPath := filepath.Join(dir, stem+".json")
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transcription record: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write transcription record: %w", err)
	}

	txtPath := filepath.Join(dir, stem+".txt")
	if err := os.WriteFile(txtPath, []byte(result.Text+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript text: %w", err)
	}

	return &FileOutput{
		JSONPath:     jsonPath,
		TXTPath:      txtPath,
		Duration:     duration,
		SegmentCount: len(segments),
	}, nil
}
