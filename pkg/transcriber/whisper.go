package transcriber

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	openai "github.com/sashabaranov/go-openai"
)

// WhisperConfig configures the OpenAI Whisper engine
type WhisperConfig struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for a compatible self-hosted server.
	BaseURL  string
	Language string
}

// Whisper sends the file to OpenAI's transcription endpoint.
type Whisper struct {
	client   *openai.Client
	language string
}

func NewWhisper(config WhisperConfig) *Whisper {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Whisper{
		client:   openai.NewClientWithConfig(clientConfig),
		language: isoLanguage(config.Language),
	}
}

// isoLanguage turns a BCP-47 tag such as "id-ID" into the ISO-639-1 code
// Whisper expects.
func isoLanguage(tag string) string {
	code, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(code)
}

func (w *Whisper) Name() string {
	return "whisper"
}

func (w *Whisper) Transcribe(ctx context.Context, info AudioInfo) (*Result, error) {
	log.Infof("Transcribing file: %s (%.2f MB) with Whisper", info.Name, float64(info.Size)/(1024*1024))

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: info.Path,
		Language: w.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, ErrNoSpeech
	}

	result := &Result{
		Text:       text,
		Confidence: segmentConfidence(resp),
		Language:   resp.Language,
		Duration:   resp.Duration,
		Engine:     w.Name(),
	}
	if result.Language == "" {
		result.Language = w.language
	}

	log.Infof("Transcription successful: %d characters", len(result.Text))

	return result, nil
}

// segmentConfidence averages exp(avg_logprob) over segments. Whisper has
// no per-transcript confidence.
func segmentConfidence(resp openai.AudioResponse) float64 {
	if len(resp.Segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range resp.Segments {
		sum += math.Exp(s.AvgLogprob)
	}
	return sum / float64(len(resp.Segments))
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{Code: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	if isDecodeError(err) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
