package handlers

import (
	"catatin/app"
	"catatin/models"
	"catatin/pkg/transcriber"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TranscribeAudioResponse is returned by the transcription endpoint
type TranscribeAudioResponse struct {
	Text       string       `json:"text"`
	Confidence float64      `json:"confidence"`
	Language   string       `json:"language,omitempty"`
	Duration   float64      `json:"duration,omitempty"`
	Engine     string       `json:"engine"`
	ProcessID  string       `json:"process_id"`
	Note       *models.Note `json:"note,omitempty"`
}

// transcriptionStatus maps a transcriber failure to a status code and a
// message safe to show the user.
func transcriptionStatus(err error) (int, string) {
	var verr *transcriber.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, verr.Message
	case errors.Is(err, transcriber.ErrNoSpeech):
		return fiber.StatusUnprocessableEntity, "No speech was detected in the audio"
	case errors.Is(err, transcriber.ErrBadStatus),
		errors.Is(err, transcriber.ErrNetwork),
		errors.Is(err, transcriber.ErrParse):
		return fiber.StatusBadGateway, "Speech service is unavailable, please try again"
	default:
		return fiber.StatusInternalServerError, "Transcription failed"
	}
}

// voiceNoteTitle builds a title from the first words of the transcript.
func voiceNoteTitle(text string, at time.Time) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "Voice note " + at.Format("2006-01-02 15:04")
	}
	if len(words) > 8 {
		words = append(words[:8], "…")
	}
	title := strings.Join(words, " ")
	if r := []rune(title); len(r) > 200 {
		title = string(r[:200])
	}
	return title
}

// TranscribeAudio validates an uploaded "audio" file and transcribes it.
// With ?save=1 the transcript is also stored as a voice note.
func TranscribeAudio(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("audio")
		if err != nil {
			return badRequest(c, "No audio file provided")
		}

		processID := uuid.New().String()
		a.Logger.Info("audio received",
			"process_id", processID,
			"filename", file.Filename,
			"size", file.Size,
		)

		tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("catatin-%s%s", processID, filepath.Ext(file.Filename)))
		if err := c.SaveFile(file, tmpPath); err != nil {
			return serverErrorWithDetails(c, "Failed to save audio file", err)
		}
		defer os.Remove(tmpPath)

		started := time.Now()
		result, err := a.Transcriber.TranscribeUpload(c.UserContext(), tmpPath, file.Filename)
		if err != nil {
			status, message := transcriptionStatus(err)
			a.Logger.Warn("transcription failed",
				"process_id", processID,
				"engine", a.Transcriber.Engine(),
				"elapsed", time.Since(started),
				"error", err,
			)
			return c.Status(status).JSON(fiber.Map{
				"error":      message,
				"process_id": processID,
			})
		}

		a.Logger.Info("transcription completed",
			"process_id", processID,
			"engine", result.Engine,
			"elapsed", time.Since(started),
			"text_length", len(result.Text),
		)

		resp := TranscribeAudioResponse{
			Text:       result.Text,
			Confidence: result.Confidence,
			Language:   result.Language,
			Duration:   result.Duration,
			Engine:     result.Engine,
			ProcessID:  processID,
		}

		if c.QueryBool("save", false) {
			now := stamp()
			note, err := a.Notes.Create(c.UserContext(), models.Note{
				Title:     voiceNoteTitle(result.Text, now),
				Body:      result.Text,
				CreatedAt: now,
				IsVoice:   true,
			}).Wait(c.UserContext())
			if err != nil {
				return serverErrorWithDetails(c, "Failed to save voice note", err)
			}
			resp.Note = &note
			return c.Status(fiber.StatusCreated).JSON(resp)
		}

		return c.JSON(resp)
	}
}
