package main

import (
	"catatin/models"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var transcribeSave bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file]",
	Short: "Validate an audio file and transcribe it",
	Long: `Transcribe checks the file (mp3, wav, m4a, aac or ogg, at most 50MB and
10 minutes) and sends it to the configured speech engine. Without
SPEECH_API_KEY a simulated engine answers with placeholder text.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := application.Transcriber.TranscribeFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var note *models.Note
		if transcribeSave {
			title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			saved, err := application.Notes.Create(cmd.Context(), models.Note{
				Title:     title,
				Body:      result.Text,
				CreatedAt: time.Now(),
				IsVoice:   true,
			}).Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("error saving voice note: %w", err)
			}
			note = &saved
		}

		if asJSON {
			return printJSON(cmd, struct {
				Result any          `json:"result"`
				Note   *models.Note `json:"note,omitempty"`
			}{result, note})
		}

		fmt.Fprintln(out(cmd), result.Text)
		fmt.Fprintf(out(cmd), "\nengine: %s, confidence: %.2f\n", result.Engine, result.Confidence)
		if note != nil {
			fmt.Fprintf(out(cmd), "Voice note created: %d\n", note.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().BoolVar(&transcribeSave, "save", false, "Store the transcript as a voice note")
}
