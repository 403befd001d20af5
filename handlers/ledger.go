package handlers

import (
	"catatin/app"
	"catatin/live"
	"catatin/models"
	"catatin/services"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// queryKind reads an optional ?kind= filter; empty selects both kinds.
func queryKind(c *fiber.Ctx) (models.TransactionKind, error) {
	raw := c.Query("kind")
	if raw == "" {
		return "", nil
	}
	kind, err := models.ParseTransactionKind(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "kind must be INCOME or EXPENSE")
	}
	return kind, nil
}

// requiredKind is queryKind for endpoints that only make sense per kind.
func requiredKind(c *fiber.Ctx) (models.TransactionKind, error) {
	kind, err := queryKind(c)
	if err == nil && kind == "" {
		err = fiber.NewError(fiber.StatusBadRequest, "kind is required")
	}
	return kind, err
}

// entryFromRequest converts a validated request.
func entryFromRequest(req models.CreateLedgerEntryRequest) models.LedgerEntry {
	amount, _ := decimal.NewFromString(strings.TrimSpace(req.Amount))
	kind, _ := models.ParseTransactionKind(req.Kind)
	return models.LedgerEntry{
		Title:       strings.TrimSpace(req.Title),
		Amount:      amount,
		Kind:        kind,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
	}
}

func ListLedgerEntries(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := queryKind(c)
		if err != nil {
			return err
		}

		entries, err := a.Ledger.List(c.UserContext(), kind)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch ledger entries", err)
		}

		return success(c, fiber.Map{"entries": entries})
	}
}

func GetLedgerEntry(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		entry, err := a.Ledger.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrEntryNotFound) {
			return notFound(c, "Entry not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch entry", err)
		}

		return success(c, fiber.Map{"entry": entry})
	}
}

func CreateLedgerEntry(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateLedgerEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		entry := entryFromRequest(req)
		entry.CreatedAt = stamp()

		saved, err := a.Ledger.Create(c.UserContext(), entry).Wait(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to save entry", err)
		}

		return created(c, fiber.Map{"entry": saved})
	}
}

// UpdateLedgerEntry edits an entry in place; its creation time is kept
func UpdateLedgerEntry(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		var req models.UpdateLedgerEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationFailed(c, err)
		}

		entry := entryFromRequest(req)
		entry.ID = id

		if _, err := a.Ledger.Update(c.UserContext(), entry).Wait(c.UserContext()); err != nil {
			if errors.Is(err, services.ErrEntryNotFound) {
				return notFound(c, "Entry not found")
			}
			return serverErrorWithDetails(c, "Failed to update entry", err)
		}

		saved, err := a.Ledger.Get(c.UserContext(), id)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch entry", err)
		}

		return success(c, fiber.Map{"entry": saved})
	}
}

func DeleteLedgerEntry(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}

		if _, err := a.Ledger.Delete(c.UserContext(), id).Wait(c.UserContext()); err != nil {
			return serverErrorWithDetails(c, "Failed to delete entry", err)
		}

		return success(c, fiber.Map{"message": "Entry deleted successfully"})
	}
}

// LedgerSummary returns total income, total expense and the balance
func LedgerSummary(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := a.Ledger.Summary(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to compute summary", err)
		}

		return success(c, fiber.Map{"summary": summary})
	}
}

// LedgerCategories returns the suggested categories for ?kind=
func LedgerCategories(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := requiredKind(c)
		if err != nil {
			return err
		}

		return success(c, fiber.Map{
			"kind":       kind,
			"categories": a.Ledger.Categories(kind),
		})
	}
}

// LedgerCategoryTotals returns per-category totals for ?kind=
func LedgerCategoryTotals(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := requiredKind(c)
		if err != nil {
			return err
		}

		totals, err := a.Ledger.CategoryTotals(c.UserContext(), kind)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to compute category totals", err)
		}

		return success(c, fiber.Map{"kind": kind, "totals": totals})
	}
}

func StreamLedger(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := queryKind(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[[]models.LedgerEntry], error) {
			return a.Ledger.Watch(ctx, kind)
		})
	}
}

func StreamLedgerSummary(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return streamSnapshots(c, a.Ledger.WatchSummary)
	}
}

func StreamLedgerEntry(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[*models.LedgerEntry], error) {
			return a.Ledger.WatchEntry(ctx, id)
		})
	}
}

// StreamLedgerCategoryTotals serves per-category totals for ?kind= as
// server-sent events
func StreamLedgerCategoryTotals(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := requiredKind(c)
		if err != nil {
			return err
		}
		return streamSnapshots(c, func(ctx context.Context) (*live.Subscription[[]models.CategoryTotal], error) {
			return a.Ledger.WatchCategoryTotals(ctx, kind)
		})
	}
}
