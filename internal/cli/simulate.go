package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var players int
	var duration time.Duration
	var wallet string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive the server with synthetic players",
		Long: `simulate connects a number of synthetic players and generates join,
idle and command traffic against the server for the given duration.
Useful for exercising the accrual loop without a real game server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(players, duration, wallet)
		},
	}

	cmd.Flags().IntVar(&players, "players", 3, "Number of synthetic players")
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "How long to run")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address to set on each player")

	return cmd
}

func runSimulate(players int, duration time.Duration, wallet string) error {
	if players < 1 {
		return fmt.Errorf("--players must be at least 1")
	}

	out := NewOutput(cfg.Output)

	ids := make([]string, players)
	for i := range ids {
		ids[i] = uuid.NewString()

		req := map[string]string{
			"player_id":    ids[i],
			"display_name": fmt.Sprintf("sim-%d", i+1),
		}
		if err := client.Post("/api/v1/events/join", req, nil); err != nil {
			return fmt.Errorf("join failed for %s: %w", ids[i], err)
		}
		out.PrintMessage(fmt.Sprintf("joined %s as sim-%d", ids[i], i+1))
	}

	if wallet != "" {
		for _, id := range ids {
			req := map[string]string{"player_id": id, "address": wallet}
			if err := client.Post("/api/v1/commands/wallet", req, nil); err != nil {
				return fmt.Errorf("wallet command failed for %s: %w", id, err)
			}
		}
	}

	categories := []string{"movement", "death", "camera"}
	deadline := time.Now().Add(duration)

	for time.Now().Before(deadline) {
		time.Sleep(time.Second)

		id := ids[rand.Intn(len(ids))]
		switch rand.Intn(3) {
		case 0:
			// Toggle an activity category
			req := map[string]any{
				"player_id": id,
				"category":  categories[rand.Intn(len(categories))],
				"inactive":  rand.Intn(2) == 0,
			}
			if err := client.Post("/api/v1/events/idle", req, nil); err != nil {
				out.PrintError(err)
			}
		case 1:
			req := map[string]string{"player_id": id}
			if err := client.Post("/api/v1/commands/balance", req, nil); err != nil {
				out.PrintError(err)
			}
		default:
			var result MessagesResult
			if err := client.Get("/api/v1/players/"+id+"/messages", &result); err != nil {
				out.PrintError(err)
				continue
			}
			for _, m := range result.Messages {
				out.PrintMessage(fmt.Sprintf("%s: %s", id, m.Text))
			}
		}
	}

	for _, id := range ids {
		req := map[string]string{"player_id": id}
		if err := client.Post("/api/v1/events/leave", req, nil); err != nil {
			out.PrintError(err)
		}
	}
	out.PrintMessage("simulation complete")

	return nil
}
