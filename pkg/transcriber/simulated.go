package transcriber

import (
	"context"
	"fmt"
	"time"
)

const simulatedConfidence = 0.95

// Simulated returns placeholder text after a fixed delay. It is used when
// no speech API credential is configured.
type Simulated struct {
	Delay time.Duration
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{Delay: delay}
}

func (s *Simulated) Name() string {
	return "simulated"
}

func (s *Simulated) Transcribe(ctx context.Context, info AudioInfo) (*Result, error) {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	text := fmt.Sprintf(`[DEMO MODE - Simulated Transcription]

File: %s
Duration: %ds

This is a simulated transcription of your audio file.
To get a real transcription:

1. Enable the Google Cloud Speech-to-Text API
2. Create an API key
3. Set SPEECH_API_KEY in the configuration

Your audio file was processed and is ready to be transcribed by a real engine.`,
		info.Name, int(info.Duration.Seconds()))

	return &Result{
		Text:       text,
		Confidence: simulatedConfidence,
		Duration:   info.Duration.Seconds(),
		Engine:     s.Name(),
	}, nil
}
