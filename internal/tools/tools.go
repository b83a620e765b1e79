// Package tools describes the function tools offered to the chat assistant.
// Basic chat ships with none.
package tools

import (
	"context"

	"github.com/rzmat/MaestroChat/pkg/logging"
)

// Tool is a function the assistant may call. Parameters is a JSON schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// State is the client's tool configuration sent along with a chat turn.
type State struct {
	GoogleIntegrationEnabled bool     `json:"googleIntegrationEnabled"`
	Enabled                  []string `json:"enabled,omitempty"`
}

var registry = []Tool{}

// List returns the registered tools.
func List() []Tool {
	out := make([]Tool, len(registry))
	copy(out, registry)
	return out
}

// Get returns the tools to offer for the given state.
func Get(_ context.Context, state State) []Tool {
	logging.Debug("Tools", "Tools state: google=%t enabled=%v", state.GoogleIntegrationEnabled, state.Enabled)
	return []Tool{}
}
