package cli

import (
	"time"

	"github.com/spf13/cobra"
)

const commandReplyTimeout = 15 * time.Second

func newWalletCmd() *cobra.Command {
	var id, address string

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Set a player's wallet address",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": id, "address": address}
			if err := client.Post("/api/v1/commands/wallet", req, nil); err != nil {
				return err
			}

			msgs, err := client.WaitForMessages(id, commandReplyTimeout)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(msgs)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	cmd.Flags().StringVar(&address, "address", "", "Wallet address (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newBalanceCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Query a player's coin balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": id}
			if err := client.Post("/api/v1/commands/balance", req, nil); err != nil {
				return err
			}

			msgs, err := client.WaitForMessages(id, commandReplyTimeout)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(msgs)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
