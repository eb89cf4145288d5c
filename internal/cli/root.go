package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "coinserver",
		Short: "Play-to-earn coin accrual server and client",
		Long: `coinserver runs the play-to-earn coin accrual service and provides
client commands for driving its ingest API.

The serve command starts the accrual scheduler and HTTP API. The other
commands act as a game server or player would: reporting joins, leaves
and activity, setting wallets, and querying balances.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: COINSERVER_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newWalletCmd())
	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
