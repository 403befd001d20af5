package transcriber

import (
	"catatin/metrics"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// DefaultSimulatedDelay is how long the simulated engine pretends to work.
const DefaultSimulatedDelay = 2 * time.Second

// Result is the outcome of a successful transcription
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Engine     string  `json:"engine"`
}

// Engine turns a validated audio file into text.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, info AudioInfo) (*Result, error)
}

// Config selects and configures the engine
type Config struct {
	// Provider is "google" or "openai". Without an APIKey the simulated
	// engine is used whatever the provider.
	Provider       string
	APIKey         string
	APIURL         string
	Language       string
	SimulatedDelay time.Duration
}

// Transcriber validates audio files and hands them to an engine. A call
// either succeeds or fails; nothing is retried.
type Transcriber struct {
	engine Engine
}

// New picks the engine for config
func New(config Config) *Transcriber {
	return NewWithEngine(engineFor(config))
}

func NewWithEngine(engine Engine) *Transcriber {
	return &Transcriber{engine: engine}
}

func engineFor(config Config) Engine {
	if config.APIKey != "" {
		switch strings.ToLower(config.Provider) {
		case ProviderGoogle, "":
			return NewGoogle(GoogleConfig{
				APIKey:   config.APIKey,
				URL:      config.APIURL,
				Language: config.Language,
			})
		case ProviderOpenAI:
			return NewWhisper(WhisperConfig{
				APIKey:   config.APIKey,
				BaseURL:  config.APIURL,
				Language: config.Language,
			})
		default:
			log.Warnf("Unknown speech provider %q, using simulated transcription", config.Provider)
		}
	}

	delay := config.SimulatedDelay
	if delay == 0 {
		delay = DefaultSimulatedDelay
	}
	return NewSimulated(delay)
}

// Engine returns the name of the engine in use.
func (t *Transcriber) Engine() string {
	return t.engine.Name()
}

// TranscribeFile validates path and transcribes it.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string) (*Result, error) {
	info, err := Validate(path)
	if err != nil {
		observeRejection(err)
		return nil, err
	}
	return t.transcribe(ctx, *info)
}

// TranscribeUpload is TranscribeFile for a file saved under a temporary
// path; name is the original file name and decides the format.
func (t *Transcriber) TranscribeUpload(ctx context.Context, path, name string) (*Result, error) {
	info, err := ValidateAs(path, name)
	if err != nil {
		observeRejection(err)
		return nil, err
	}
	return t.transcribe(ctx, *info)
}

func (t *Transcriber) transcribe(ctx context.Context, info AudioInfo) (*Result, error) {
	result, err := t.engine.Transcribe(ctx, info)
	metrics.ObserveTranscription(t.engine.Name(), err)
	if err != nil {
		log.Errorf("Transcription of %s failed: %v", info.Name, err)
		return nil, err
	}
	return result, nil
}

func observeRejection(err error) {
	reason := "other"
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		reason = "format"
	case errors.Is(err, ErrTooLarge):
		reason = "size"
	case errors.Is(err, ErrEmptyFile):
		reason = "empty"
	case errors.Is(err, ErrTooLong):
		reason = "duration"
	}
	metrics.ValidationRejections.WithLabelValues(reason).Inc()
}
