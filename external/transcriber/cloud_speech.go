package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"google.golang.org/api/option"

	"github.com/Sanzcloud-web/Whisper/internal/transcriber"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Location        string
	Model           string
}

// CloudSpeechTranscriber recognizes a whole audio artifact with one unary
// Recognize call. Recognition parameters are fixed, so identical input
// yields reproducible output.
type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	location        string
	model           string
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig) (transcriber.Transcriber, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT_ID is required for transcription")
	}
	if strings.TrimSpace(cfg.CredentialsJSON) == "" {
		return nil, errors.New("GOOGLE_CLOUD_CREDENTIALS_JSON is required for transcription")
	}
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}
	return &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		location:        location,
		model:           strings.TrimSpace(cfg.Model),
	}, nil
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*transcriber.Result, error) {
	content, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio artifact: %w", err)
	}

	client, err := t.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Close()
	}()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location),
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{language},
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
			Features: &speechpb.RecognitionFeatures{},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: content},
	})
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	return buildResult(resp), nil
}

func (t *CloudSpeechTranscriber) newClient(ctx context.Context) (*speech.Client, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}
	return speech.NewClient(ctx, opts...)
}

// buildResult flattens the recognition results into one transcript plus a
// per-segment table. The API only reports end offsets, so each segment
// starts where the previous one ended.
func buildResult(resp *speechpb.RecognizeResponse) *transcriber.Result {
	result := &transcriber.Result{}
	var parts []string
	prevEnd := 0.0
	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		text := strings.TrimSpace(r.GetAlternatives()[0].GetTranscript())
		if text == "" {
			continue
		}
		end := prevEnd
		if offset := r.GetResultEndOffset(); offset != nil {
			end = offset.AsDuration().Seconds()
		}
		result.Segments = append(result.Segments, transcriber.Segment{Start: prevEnd, End: end, Text: text})
		parts = append(parts, text)
		prevEnd = end
	}
	result.Text = strings.Join(parts, " ")
	return result
}
