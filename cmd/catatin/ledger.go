package main

import (
	"catatin/models"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	ledgerKind        string
	entryKind         string
	entryCategory     string
	entryDescription  string
	summaryByCategory bool
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Track income and expenses",
}

func optionalKind(raw string) (models.TransactionKind, error) {
	if raw == "" {
		return "", nil
	}
	return models.ParseTransactionKind(raw)
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := optionalKind(ledgerKind)
		if err != nil {
			return err
		}

		entries, err := application.Ledger.List(cmd.Context(), kind)
		if err != nil {
			return fmt.Errorf("error listing entries: %w", err)
		}

		if asJSON {
			return printJSON(cmd, entries)
		}

		w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "ID\tDATE\tKIND\tAMOUNT\tCATEGORY\tTITLE\t")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
				e.ID, e.CreatedAt.Local().Format(time.DateOnly), e.Kind, e.Amount.StringFixed(2), e.Category, e.Title)
		}
		return w.Flush()
	},
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add [title] [amount]",
	Short: "Record an income or expense",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.CreateLedgerEntryRequest{
			Title:       args[0],
			Amount:      args[1],
			Kind:        entryKind,
			Category:    entryCategory,
			Description: entryDescription,
		}
		if err := application.Validator.Validate(req); err != nil {
			return err
		}

		amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))
		kind, _ := models.ParseTransactionKind(req.Kind)

		entry, err := application.Ledger.Create(cmd.Context(), models.LedgerEntry{
			Title:       strings.TrimSpace(req.Title),
			Amount:      amount,
			Kind:        kind,
			Category:    strings.TrimSpace(req.Category),
			Description: req.Description,
			CreatedAt:   time.Now(),
		}).Wait(cmd.Context())
		if err != nil {
			return fmt.Errorf("error saving entry: %w", err)
		}

		if asJSON {
			return printJSON(cmd, entry)
		}
		fmt.Fprintf(out(cmd), "Entry created: %d\n", entry.ID)
		return nil
	},
}

var ledgerSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total income, total expense and the balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := application.Ledger.Summary(cmd.Context())
		if err != nil {
			return fmt.Errorf("error computing summary: %w", err)
		}

		var totals map[models.TransactionKind][]models.CategoryTotal
		if summaryByCategory {
			totals = make(map[models.TransactionKind][]models.CategoryTotal, 2)
			for _, kind := range []models.TransactionKind{models.KindIncome, models.KindExpense} {
				if totals[kind], err = application.Ledger.CategoryTotals(cmd.Context(), kind); err != nil {
					return fmt.Errorf("error computing category totals: %w", err)
				}
			}
		}

		if asJSON {
			return printJSON(cmd, struct {
				models.LedgerSummary
				Categories map[models.TransactionKind][]models.CategoryTotal `json:"categories,omitempty"`
			}{summary, totals})
		}

		w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(w, "Income\t%s\t\n", summary.Income.StringFixed(2))
		fmt.Fprintf(w, "Expense\t%s\t\n", summary.Expense.StringFixed(2))
		fmt.Fprintf(w, "Balance\t%s\t\n", summary.Balance.StringFixed(2))
		for _, kind := range []models.TransactionKind{models.KindIncome, models.KindExpense} {
			if len(totals[kind]) == 0 {
				continue
			}
			fmt.Fprintf(w, "\t\t\n%s by category\t\t\n", kind)
			for _, t := range totals[kind] {
				fmt.Fprintf(w, "%s\t%s\t\n", t.Category, t.Total.StringFixed(2))
			}
		}
		return w.Flush()
	},
}

var ledgerRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		if _, err := application.Ledger.Delete(cmd.Context(), id).Wait(cmd.Context()); err != nil {
			return fmt.Errorf("error deleting entry: %w", err)
		}

		fmt.Fprintf(out(cmd), "Entry deleted: %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerListCmd, ledgerAddCmd, ledgerSummaryCmd, ledgerRmCmd)

	ledgerListCmd.Flags().StringVar(&ledgerKind, "kind", "", "Filter by kind: INCOME or EXPENSE")
	ledgerAddCmd.Flags().StringVarP(&entryKind, "kind", "k", string(models.KindExpense), "INCOME or EXPENSE")
	ledgerAddCmd.Flags().StringVarP(&entryCategory, "category", "c", "Other", "Category")
	ledgerAddCmd.Flags().StringVarP(&entryDescription, "description", "d", "", "Optional description")
	ledgerSummaryCmd.Flags().BoolVar(&summaryByCategory, "by-category", false, "Also show totals per category")
}
