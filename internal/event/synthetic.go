package event

import "encoding/json"

// SyntheticMessage is the assistant text carried by a Synthetic event.
const SyntheticMessage = "ai-task-notify test notification. If you can read this, the channel works."

// Synthetic builds a Codex-shaped agent-turn-complete event used to check
// channel configuration without running an agent.
func Synthetic(cwd string) *Event {
	data := map[string]any{
		"type":                   TypeAgentTurnComplete,
		"cwd":                    cwd,
		"last-assistant-message": SyntheticMessage,
	}
	raw, _ := json.Marshal(data)
	return &Event{
		Source: SourceCodex,
		Type:   TypeAgentTurnComplete,
		Data:   data,
		Raw:    raw,
	}
}
