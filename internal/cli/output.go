package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []Message:
		o.printMessages(v)
	case MessagesResult:
		o.printMessages(v.Messages)
	case RosterResult:
		o.printRoster(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Message is one command result delivered to a player (matches API)
type Message struct {
	Text    string `json:"text"`
	IsError bool   `json:"is_error"`
}

// MessagesResult response type
type MessagesResult struct {
	Messages []Message `json:"messages"`
}

// RosterResult response type
type RosterResult struct {
	Players []RosterPlayer `json:"players"`
}

// RosterPlayer response type
type RosterPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Idle        bool   `json:"idle"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printMessages(msgs []Message) {
	for _, m := range msgs {
		if m.IsError {
			fmt.Printf("[error] %s\n", m.Text)
		} else {
			fmt.Println(m.Text)
		}
	}
}

func (o *Output) printRoster(r RosterResult) {
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		idleStr := ""
		if p.Idle {
			idleStr = " [idle]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, idleStr)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
