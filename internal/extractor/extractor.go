// Package extractor turns a PDF billing statement into raw statement rows
// using a natural-language extraction service. The service is non-
// deterministic: callers must treat row order and phrasing as unstable and
// validate everything structurally downstream.
package extractor

import (
	"context"

	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// StatementParser is the contract required from the extraction service: given
// a statement document and the known member display names, return the
// statement's rows with a responsible-person assignment and a rationale per
// row.
type StatementParser interface {
	Parse(ctx context.Context, pdfPath string, memberNames []string) ([]models.RawRow, error)
}
