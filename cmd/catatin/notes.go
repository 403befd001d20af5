package main

import (
	"catatin/database"
	"catatin/models"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	notesVoiceOnly bool
	noteBody       string
	noteVoice      bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, err := application.Notes.List(cmd.Context(), database.NoteFilter{VoiceOnly: notesVoiceOnly})
		if err != nil {
			return fmt.Errorf("error listing notes: %w", err)
		}

		if asJSON {
			return printJSON(cmd, notes)
		}

		w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tVOICE\tTITLE")
		for _, n := range notes {
			voice := ""
			if n.IsVoice {
				voice = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, n.CreatedAt.Local().Format(time.DateTime), voice, n.Title)
		}
		return w.Flush()
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		note, err := application.Notes.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(cmd, note)
		}
		fmt.Fprintf(out(cmd), "%s\n%s\n\n%s\n", note.Title, note.CreatedAt.Local().Format(time.DateTime), note.Body)
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.CreateNoteRequest{Title: args[0], Body: noteBody, IsVoice: noteVoice}
		if err := application.Validator.Validate(req); err != nil {
			return err
		}

		note, err := application.Notes.Create(cmd.Context(), models.Note{
			Title:     strings.TrimSpace(req.Title),
			Body:      req.Body,
			CreatedAt: time.Now(),
			IsVoice:   req.IsVoice,
		}).Wait(cmd.Context())
		if err != nil {
			return fmt.Errorf("error saving note: %w", err)
		}

		if asJSON {
			return printJSON(cmd, note)
		}
		fmt.Fprintf(out(cmd), "Note created: %d\n", note.ID)
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if _, err := application.Notes.Delete(cmd.Context(), id).Wait(cmd.Context()); err != nil {
			return fmt.Errorf("error deleting note: %w", err)
		}

		fmt.Fprintf(out(cmd), "Note deleted: %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesShowCmd, notesAddCmd, notesRmCmd)

	notesListCmd.Flags().BoolVar(&notesVoiceOnly, "voice", false, "Only voice notes")
	notesAddCmd.Flags().StringVarP(&noteBody, "body", "b", "", "Note body")
	notesAddCmd.Flags().BoolVar(&noteVoice, "voice", false, "Mark as a voice note")
}
