// Package uploader is the submission boundary between computed allocations
// and the expense ledger. Each expense is submitted exactly once; a failed
// submission is logged and the batch moves on. There is no retry and no
// rollback of already-submitted expenses.
package uploader

import (
	"context"

	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// Ledger is the subset of the expense ledger the uploader needs.
type Ledger interface {
	CreateExpense(ctx context.Context, expense models.Expense) error
}

// Uploader submits allocated expenses to a ledger.
type Uploader struct {
	ledger Ledger
	logger logging.Logger
}

// New creates an uploader for the given ledger.
func New(ledger Ledger, logger logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Uploader{ledger: ledger, logger: logger}
}

// Submit sends every expense to the ledger in order and returns the number
// successfully created. Partial-batch failure is tolerated.
func (u *Uploader) Submit(ctx context.Context, expenses []models.Expense) int {
	submitted := 0
	for _, expense := range expenses {
		log := u.logger.
			WithField("description", expense.Description).
			WithField("amount", expense.Amount.StringFixed(2))

		if err := u.ledger.CreateExpense(ctx, expense); err != nil {
			log.WithError(err).Error("Failed to create expense, continuing with the rest")
			continue
		}

		log.Info("Expense created successfully")
		submitted++
	}
	return submitted
}
