// Package statement runs extraction rows through normalization and
// allocation. Rows are processed strictly sequentially against one immutable
// roster snapshot; a bad row is logged and skipped, it never fails the batch.
package statement

import (
	"errors"
	"fmt"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocate"
	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
	"github.com/dxue2012/bayclub-to-splitwise/internal/normalize"
)

// Processor converts a batch of raw extraction rows into expenses.
type Processor struct {
	engine *allocate.Engine
	logger logging.Logger
}

// NewProcessor creates a batch processor around an allocation engine.
func NewProcessor(engine *allocate.Engine, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{engine: engine, logger: logger}
}

// Process normalizes and allocates every row in order. Structurally invalid
// rows and rows whose assignee cannot be resolved are logged and skipped. A
// ConsistencyError aborts the batch: it marks a bug in the allocation engine
// and nothing produced after it can be trusted.
func (p *Processor) Process(rows []models.RawRow) ([]models.Expense, error) {
	expenses := make([]models.Expense, 0, len(rows))

	for _, raw := range rows {
		rowLog := p.logger.WithField("description", raw.Description)

		normalized, err := normalize.Row(raw)
		if err != nil {
			rowLog.WithError(err).Warn("Skipping row that failed structural validation",
				logging.Field{Key: "date", Value: raw.Date},
				logging.Field{Key: "amount", Value: raw.Amount})
			continue
		}

		expense, err := p.engine.Allocate(normalized)
		if err != nil {
			var consistency *allocerror.ConsistencyError
			if errors.As(err, &consistency) {
				return nil, fmt.Errorf("allocation produced unbalanced shares: %w", err)
			}

			var unassigned *allocerror.UnassignedRowError
			if errors.As(err, &unassigned) {
				rowLog.WithError(err).Warn("Row needs manual handling, skipping")
				continue
			}

			rowLog.WithError(err).Error("Skipping row whose assignee could not be resolved")
			continue
		}

		expenses = append(expenses, expense)
	}

	return expenses, nil
}
