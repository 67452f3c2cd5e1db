package hooks

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// maxPayloadBytes caps how much of stdin a hook reads. Real payloads are
// well under a kilobyte; the cap guards against a runaway caller.
const maxPayloadBytes = 1 << 20

// Payload is the JSON Claude Code sends on stdin with every hook
// invocation. All fields are optional; unknown fields are ignored.
type Payload struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	CWD            string          `json:"cwd"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolResponse   json.RawMessage `json:"tool_response"`
	Prompt         string          `json:"prompt"`
	Source         string          `json:"source"`
}

// ParsePayload decodes a hook payload from r. Empty input yields an empty
// payload; malformed JSON is returned as an error for the caller to map to
// exit code 1.
func ParsePayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read hook payload")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Payload{}, nil
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Command returns tool_input.command for Bash tool calls, or "" when the
// field is absent or tool_input is not an object.
func (p *Payload) Command() string {
	return p.toolInputString("command")
}

// FilePath returns tool_input.file_path for file-editing tool calls, or "".
func (p *Payload) FilePath() string {
	return p.toolInputString("file_path")
}

func (p *Payload) toolInputString(key string) string {
	if len(p.ToolInput) == 0 {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(p.ToolInput, &fields); err != nil {
		return ""
	}

	var value string
	if err := json.Unmarshal(fields[key], &value); err != nil {
		return ""
	}
	return value
}
