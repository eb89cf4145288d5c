package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player connection and activity events",
	}

	cmd.AddCommand(newPlayerJoinCmd())
	cmd.AddCommand(newPlayerLeaveCmd())
	cmd.AddCommand(newPlayerIdleCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerMessagesCmd())

	return cmd
}

func newPlayerJoinCmd() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Report a player joining the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = id
			}

			req := map[string]string{"player_id": id, "display_name": name}
			if err := client.Post("/api/v1/events/join", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Player %s joined", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the ID)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPlayerLeaveCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Report a player disconnecting",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player_id": id}
			if err := client.Post("/api/v1/events/leave", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Player %s left", id))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPlayerIdleCmd() *cobra.Command {
	var id, category string
	var active bool

	cmd := &cobra.Command{
		Use:   "idle",
		Short: "Report a player going inactive or active in a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player_id": id,
				"category":  category,
				"inactive":  !active,
			}
			if err := client.Post("/api/v1/events/idle", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			state := "inactive"
			if active {
				state = "active"
			}
			out.PrintMessage(fmt.Sprintf("Player %s marked %s in %s", id, state, category))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	cmd.Flags().StringVar(&category, "category", "movement", "Activity category")
	cmd.Flags().BoolVar(&active, "active", false, "Mark the category active instead of inactive")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RosterResult
			if err := client.Get("/api/v1/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerMessagesCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Drain a player's pending command results",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MessagesResult
			if err := client.Get("/api/v1/players/"+id+"/messages", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Player ID (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
