package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// MockVisionResponse is the fixed placeholder the mock returns for every
// vision request.
const MockVisionResponse = "This looks like a screenshot, but I can't analyze images without a GROK_API_KEY configured."

// Mock is the credential-less stand-in for the Grok API. It never performs
// network I/O. Chat echoes the user message, and simulates tool calls for a
// few trigger phrases so the host's tool flow can be exercised offline.
type Mock struct{}

var quotedText = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)

// Chat implements ChatFunc.
func (m *Mock) Chat(_ context.Context, req *ChatRequest) (*ChatResponse, error) {
	// Second pass: tool results are present, so summarize them.
	var toolOutputs []string
	for _, msg := range req.Messages {
		if msg.Role == RoleTool {
			toolOutputs = append(toolOutputs, msg.Content)
		}
	}
	if len(toolOutputs) > 0 {
		return &ChatResponse{
			Content: "Here is what I found:\n\n" + strings.Join(toolOutputs, "\n\n"),
		}, nil
	}

	userMsg := lastUserMessage(req.Messages)
	lower := strings.ToLower(userMsg)

	if strings.Contains(lower, "paste") {
		if match := quotedText.FindStringSubmatch(userMsg); match != nil {
			content := match[1]
			if content == "" {
				content = match[2]
			}
			args, _ := json.Marshal(map[string]string{"content": content})
			return &ChatResponse{
				ToolCalls: []ToolCall{{
					ID:        "call_mock_1",
					Name:      "paste_to_app",
					Arguments: string(args),
				}},
			}, nil
		}
	}

	if strings.Contains(lower, "github") {
		args, _ := json.Marshal(map[string]string{"query": userMsg})
		return &ChatResponse{
			ToolCalls: []ToolCall{{
				ID:        "call_mock_1",
				Name:      "search_github",
				Arguments: string(args),
			}},
		}, nil
	}

	return &ChatResponse{
		Content: fmt.Sprintf("Clippy (mock) received: '%s'", userMsg),
	}, nil
}

// Vision implements VisionFunc, returning the fixed placeholder without
// touching the image bytes.
func (m *Mock) Vision(_ context.Context, _ string, _ []byte) (string, error) {
	return MockVisionResponse, nil
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
