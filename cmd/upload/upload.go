// Package upload implements the statement processing command
package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/common"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
	"github.com/dxue2012/bayclub-to-splitwise/internal/allocate"
	"github.com/dxue2012/bayclub-to-splitwise/internal/extractor"
	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/report"
	"github.com/dxue2012/bayclub-to-splitwise/internal/roster"
	"github.com/dxue2012/bayclub-to-splitwise/internal/statement"
	"github.com/dxue2012/bayclub-to-splitwise/internal/uploader"
)

var (
	pdfFile    string
	doUpload   bool
	reportFile string
	rulesFile  string
)

// Cmd represents the upload command
var Cmd = &cobra.Command{
	Use:   "upload",
	Short: "Extract a billing statement and allocate its charges",
	Long: `Extract billable rows from a club billing statement PDF, allocate each
charge to the responsible group members, and display the resulting expenses.
Nothing is created in Splitwise unless --upload is given.`,
	RunE: uploadFunc,
}

// Init wires the upload command flags
func Init() {
	Cmd.Flags().StringVarP(&pdfFile, "pdf", "p", "", "Billing statement PDF to process")
	Cmd.Flags().BoolVar(&doUpload, "upload", false, "Create the expenses in Splitwise instead of a dry run")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write the allocation set to this CSV file")
	Cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with extraction instructions for the model")
	_ = Cmd.MarkFlagRequired("pdf")
}

func uploadFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	log := root.Log

	if cmd.Flags().Changed("upload") {
		cfg.UploadToSplitwise = doUpload
	}
	if rulesFile == "" {
		rulesFile = cfg.AI.RulesFile
	}

	// Everything this run needs must be configured before the first
	// network or model call.
	if err := cfg.ValidateForUpload(); err != nil {
		return err
	}

	ctx := cmd.Context()

	client, err := common.NewSplitwiseClient(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Infof("Fetching members of group %d", cfg.GroupID)
	members, err := client.GetGroupMembers(ctx, cfg.GroupID)
	if err != nil {
		return err
	}

	r := roster.Resolve(members)
	payer, err := r.Payer(cfg.PayerName)
	if err != nil {
		return err
	}
	log.Infof("Payer resolved: %s (id %d)", payer.Name, payer.ID)

	rules, err := extractor.LoadRules(rulesFile)
	if err != nil {
		return err
	}

	// Only the model call gets a deadline, statement PDFs can take a while.
	extractCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()

	adapter := logging.NewLogrusAdapterFromLogger(log)
	parser := extractor.NewGeminiParser(cfg.AI.APIKey, cfg.AI.Model, rules, adapter)
	rows, err := parser.Parse(extractCtx, pdfFile, r.Names())
	if err != nil {
		return err
	}
	log.Infof("Extracted %d rows from %s", len(rows), pdfFile)

	engine := allocate.NewEngine(r, payer, cfg.GroupID)
	expenses, err := statement.NewProcessor(engine, adapter).Process(rows)
	if err != nil {
		return err
	}

	// The allocation set is always displayed, whether or not it is uploaded.
	for _, expense := range expenses {
		fmt.Println(expense.String())
	}
	log.Infof("Allocated %d expenses from %d rows", len(expenses), len(rows))

	if reportFile != "" {
		if err := report.WriteAllocations(expenses, r, reportFile, adapter); err != nil {
			return err
		}
	}

	if !cfg.UploadToSplitwise {
		log.Info("NOT uploading to Splitwise, pass --upload to submit")
		return nil
	}

	submitted := uploader.New(client, adapter).Submit(ctx, expenses)
	log.Infof("Created %d of %d expenses in Splitwise", submitted, len(expenses))
	if submitted < len(expenses) {
		return fmt.Errorf("%d expenses failed to upload", len(expenses)-submitted)
	}
	return nil
}
