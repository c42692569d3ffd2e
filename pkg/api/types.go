package api

import (
	"encoding/json"
	"time"
)

// AgentContext is the situational context the host sends alongside a chat
// message: the frontmost application and a preview of recent clipboard items.
type AgentContext struct {
	AppName        string          `json:"app_name,omitempty"`
	ClipboardItems []ClipboardItem `json:"clipboard_items,omitempty"`
}

// ClipboardItem is one recent clipboard entry in the host context.
type ClipboardItem struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// MessageRequest is the request for POST /v1/agent/message.
type MessageRequest struct {
	Message string        `json:"message"`
	Context *AgentContext `json:"context,omitempty"`
}

// MessageResponse is the agent's reply: free text plus any tool calls the
// host must execute on its side (e.g. pasting into the active app).
type MessageResponse struct {
	Response  string           `json:"response"`
	ToolCalls []ClientToolCall `json:"tool_calls"`
}

// ClientToolCall is a tool invocation delegated to the host. Arguments are
// passed through as raw JSON; the host decodes them per tool name.
type ClientToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// VisionResponse is the response for POST /v1/agent/vision.
type VisionResponse struct {
	Response string `json:"response"`
}

// ReflectResponse carries the regenerated persona block.
type ReflectResponse struct {
	Persona string `json:"persona"`
}

// MemoryAddRequest is the request for POST /v1/memory.
type MemoryAddRequest struct {
	Text      string   `json:"text"`
	SourceApp string   `json:"source_app,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// MemoryAddResponse is the response for POST /v1/memory.
type MemoryAddResponse struct {
	ID string `json:"id"`
}

// MemoryItem is a stored memory item as exposed over the API.
type MemoryItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	SourceApp string    `json:"source_app,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// MemoryListResponse is the response for GET /v1/memory/list.
type MemoryListResponse struct {
	Items []MemoryItem `json:"items"`
	Total int          `json:"total"`
}

// MemoryCountResponse is the response for GET /v1/memory/count.
type MemoryCountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Mode        string `json:"mode"`
	MemoryItems int    `json:"memory_items"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
