// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dxue2012/bayclub-to-splitwise/internal/config"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg holds the resolved configuration, populated before any command runs
	Cfg = &config.Config{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bayclub-to-splitwise",
		Short: "Split a club billing statement among Splitwise group members.",
		Long: `bayclub-to-splitwise extracts billable rows from a club billing
statement PDF, allocates each charge to the responsible group members,
and optionally creates the resulting expenses in a Splitwise group.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bayclub-to-splitwise!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize and configure logging
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}

			// Command-line flags override file and environment settings
			if cmd.Flags().Changed("group-id") {
				cfg.GroupID = groupIDFlag
			}
			if cmd.Flags().Changed("payer") {
				cfg.PayerName = payerFlag
			}

			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
			return nil
		},
	}

	// Flags shared by every command that talks to the Splitwise group
	groupIDFlag int64
	payerFlag   string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().Int64Var(&groupIDFlag, "group-id", 0, "Splitwise group to operate on")
	Cmd.PersistentFlags().StringVar(&payerFlag, "payer", "", "Full name of the member who paid the statement")
}
