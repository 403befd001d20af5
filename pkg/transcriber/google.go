package transcriber

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

const (
	DefaultGoogleURL      = "https://speech.googleapis.com/"
	DefaultLanguage       = "id-ID"
	DefaultSampleRate     = 16000
	DefaultConnectTimeout = 30 * time.Second
	DefaultReadTimeout    = 60 * time.Second
)

// GoogleConfig configures the Google Speech-to-Text engine
type GoogleConfig struct {
	APIKey string
	// URL is the API root; v1/speech:recognize is resolved against it.
	URL            string
	Language       string
	SampleRate     int64
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Google posts the whole file, base64-encoded, to the speech:recognize
// endpoint and returns the top alternative. It never retries.
type Google struct {
	config GoogleConfig
	client *http.Client
}

func NewGoogle(config GoogleConfig) *Google {
	if config.URL == "" {
		config.URL = DefaultGoogleURL
	}
	if !strings.HasSuffix(config.URL, "/") {
		config.URL += "/"
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	if config.SampleRate == 0 {
		config.SampleRate = DefaultSampleRate
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = DefaultReadTimeout
	}

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: config.ConnectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
	}

	// A caller-supplied client bypasses option.WithAPIKey, so the key is
	// added by the transport.
	return &Google{
		config: config,
		client: &http.Client{
			Transport: &transport.APIKey{Key: config.APIKey, Transport: base},
			Timeout:   config.ConnectTimeout + config.ReadTimeout,
		},
	}
}

func (g *Google) Name() string {
	return "google"
}

// encodingFor maps a file format to the API's encoding name.
func encodingFor(format string) string {
	switch format {
	case "wav":
		return "LINEAR16"
	case "ogg":
		return "OGG_OPUS"
	default:
		return "MP3"
	}
}

func (g *Google) Transcribe(ctx context.Context, info AudioInfo) (*Result, error) {
	content, err := os.ReadFile(info.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	svc, err := speech.NewService(ctx,
		option.WithHTTPClient(g.client),
		option.WithEndpoint(g.config.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	log.Infof("Transcribing file: %s (%.2f MB) with Google Speech", info.Name, float64(info.Size)/(1024*1024))

	startTime := time.Now()
	resp, err := svc.Speech.Recognize(&speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:                   encodingFor(info.Format),
			SampleRateHertz:            g.config.SampleRate,
			LanguageCode:               g.config.Language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(content),
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, classifyGoogleError(err)
	}

	log.Infof("Transcription request completed in %.2fs", time.Since(startTime).Seconds())

	return recognizeResult(resp, g.config.Language, info)
}

func recognizeResult(resp *speech.RecognizeResponse, language string, info AudioInfo) (*Result, error) {
	if len(resp.Results) == 0 || resp.Results[0] == nil {
		return nil, ErrNoSpeech
	}
	alternatives := resp.Results[0].Alternatives
	if len(alternatives) == 0 || alternatives[0] == nil {
		return nil, fmt.Errorf("%w: no transcription alternatives found", ErrNoSpeech)
	}

	best := alternatives[0]
	if strings.TrimSpace(best.Transcript) == "" {
		return nil, fmt.Errorf("%w: alternative has no transcript", ErrNoSpeech)
	}

	result := &Result{
		Text:       best.Transcript,
		Confidence: best.Confidence,
		Language:   language,
		Duration:   info.Duration.Seconds(),
		Engine:     "google",
	}

	log.Infof("Transcription successful: %d characters", len(result.Text))

	return result, nil
}

// classifyGoogleError sorts a failed call into a status, parse or
// network error.
func classifyGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Body
		if body == "" {
			body = apiErr.Message
		}
		return &StatusError{Code: apiErr.Code, Body: truncate(body, 512)}
	}
	if isDecodeError(err) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// isDecodeError reports whether err came from decoding a JSON body.
// Transport failures surface as *url.Error and never count.
func isDecodeError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
