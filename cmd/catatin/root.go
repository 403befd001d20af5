package main

import (
	"catatin/app"
	"catatin/config"
	"catatin/config/setup"
	"catatin/database"
	"catatin/pkg/logging"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	dbPath   string
	dbDriver string
	asJSON   bool

	db          *database.DB
	application *app.App
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catatin",
	Short: "Notes, tasks and a money ledger from the command line",
	Long: `catatin works on the same store as the catatin server. Changes made
here reach open server streams when the server runs with WATCH_DB_FILE=true.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("driver") {
			cfg.DBDriver = dbDriver
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger := logging.New(os.Stderr, "cli", level)
		slog.SetDefault(logger)

		var err error
		db, err = setup.InitDatabase(cfg.DBDriver, cfg.DBPath, logger)
		if err != nil {
			return err
		}

		application, err = setup.InitApp(cfg, db, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
			db = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/catatin.db", "Path to the store file (default from DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", database.DriverCGO, "SQLite driver: sqlite3 or sqlite (default from DB_DRIVER)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output in JSON format")
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(out(cmd))
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// parseID reads a positive record id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
