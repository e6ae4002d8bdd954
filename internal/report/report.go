// Package report writes the computed allocation set to a CSV file so a batch
// can be audited before (or after) submission. The dry-run and submitting
// modes produce the identical report.
package report

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/dxue2012/bayclub-to-splitwise/internal/dateutils"
	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
	"github.com/dxue2012/bayclub-to-splitwise/internal/roster"
)

// allocationRecord is one share of one expense, flattened for CSV output.
type allocationRecord struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Member      string `csv:"Member"`
	Paid        string `csv:"Paid"`
	Owed        string `csv:"Owed"`
	Details     string `csv:"Details"`
}

// WriteAllocations writes every share of every expense to csvFile.
func WriteAllocations(expenses []models.Expense, r *roster.Roster, csvFile string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	nameByID := make(map[int64]string)
	for _, member := range r.Members() {
		nameByID[member.ID] = member.Name
	}

	records := make([]allocationRecord, 0, len(expenses))
	for _, expense := range expenses {
		for _, share := range expense.Shares {
			name := nameByID[share.MemberID]
			if name == "" {
				name = fmt.Sprintf("member %d", share.MemberID)
			}
			records = append(records, allocationRecord{
				Date:        dateutils.ToISODate(expense.Date),
				Description: expense.Description,
				Amount:      expense.Amount.StringFixed(2),
				Member:      name,
				Paid:        share.Paid.StringFixed(2),
				Owed:        share.Owed.StringFixed(2),
				Details:     expense.Details,
			})
		}
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close report file")
		}
	}()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	logger.Info("Wrote allocation report",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "rows", Value: len(records)})
	return nil
}
