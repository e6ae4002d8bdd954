// Package expenses implements expense listing and deletion commands
package expenses

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dxue2012/bayclub-to-splitwise/cmd/common"
	"github.com/dxue2012/bayclub-to-splitwise/cmd/root"
)

// Cmd represents the expenses command
var Cmd = &cobra.Command{
	Use:   "expenses",
	Short: "List the expenses in the configured Splitwise group",
	RunE:  listFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <expense-id>",
	Short: "Delete one expense by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

// Init wires the expenses subcommands
func Init() {
	Cmd.AddCommand(deleteCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	if cfg.GroupID == 0 {
		return fmt.Errorf("group_id is not configured")
	}

	ctx := cmd.Context()
	client, err := common.NewSplitwiseClient(ctx, cfg, root.Log)
	if err != nil {
		return err
	}

	expenses, err := client.GetExpenses(ctx, cfg.GroupID)
	if err != nil {
		return err
	}

	for _, expense := range expenses {
		if expense.DeletedAt != "" {
			continue
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", expense.ID, expense.Date, expense.Cost, expense.Description)
	}
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	expenseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expense id %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	client, err := common.NewSplitwiseClient(ctx, root.Cfg, root.Log)
	if err != nil {
		return err
	}

	if err := client.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	root.Log.Infof("Deleted expense %d", expenseID)
	return nil
}
