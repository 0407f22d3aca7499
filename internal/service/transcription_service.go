package service

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/mockprep/config"
	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// PlaceholderTranscript is returned when no speech-to-text backend is configured.
const PlaceholderTranscript = "mock transcript from audio"

const transcriptionPrompt = `Transcribe the spoken English in this recording verbatim.
Return only the transcript text, with no timestamps, speaker labels or commentary.
If nothing intelligible is said, return an empty response.`

// TranscriptionService turns recorded answers into text that is then scored
// exactly like a typed answer.
type TranscriptionService interface {
	Transcribe(ctx context.Context, media []byte, mimeType string) (string, error)
}

type geminiTranscriptionService struct {
	model *genai.GenerativeModel
}

func NewTranscriptionService(lc fx.Lifecycle, cfg *config.Config) (TranscriptionService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Voice and video answers will use the placeholder transcript.")
		return &geminiTranscriptionService{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return client.Close() },
	})

	m := client.GenerativeModel(cfg.GeminiModel)
	m.SetTemperature(0)
	return &geminiTranscriptionService{model: m}, nil
}

func (s *geminiTranscriptionService) Transcribe(ctx context.Context, media []byte, mimeType string) (string, error) {
	if len(media) == 0 {
		return "", apperr.Validationf("media is empty")
	}
	if s.model == nil {
		return PlaceholderTranscript, nil
	}

	resp, err := s.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mediaType(media, mimeType), Data: media},
		genai.Text(transcriptionPrompt),
	)
	if err != nil {
		log.Error().Err(err).Int("bytes", len(media)).Msg("Gemini API error during transcription")
		return "", apperr.Wrap(apperr.External, err, "transcription failed")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.New(apperr.External, "transcription returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// mediaType prefers the declared content type and falls back to sniffing.
func mediaType(media []byte, declared string) string {
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil && parsed != "application/octet-stream" {
			return parsed
		}
	}
	sniffed := http.DetectContentType(media)
	if parsed, _, err := mime.ParseMediaType(sniffed); err == nil {
		return parsed
	}
	return "application/octet-stream"
}
