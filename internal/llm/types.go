package llm

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// ErrTagModelCall marks failures of the remote chat/vision capability. The
// orchestrator never surfaces these to the host; they become apologetic text.
var ErrTagModelCall = goerr.NewTag("model_call")

// Message roles, matching the OpenAI wire protocol.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant turns that request tool execution.
	ToolCalls []ToolCall

	// ToolCallID and Name are set on tool-result turns, keyed to the
	// assistant's original request.
	ToolCallID string
	Name       string
}

// ToolCall is a model-requested tool invocation. Arguments is the raw JSON
// string as emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolSpec declares a tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ChatRequest is a chat-completion request with optional tool schema.
// Tool selection is left to the model.
type ChatRequest struct {
	Messages []Message
	Tools    []ToolSpec
}

// ChatResponse is the model's answer: free text, tool calls, or both.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatFunc sends a chat-completion request and returns the response. This
// abstraction decouples the orchestrator from the concrete client, so tests
// and mock mode can script responses.
type ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

// VisionFunc sends a single-turn vision request: an instruction plus a PNG
// image, returning the model's description. No tool calling on this path.
type VisionFunc func(ctx context.Context, instruction string, imagePNG []byte) (string, error)
