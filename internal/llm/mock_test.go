package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func userRequest(message string) *ChatRequest {
	return &ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "system prompt"},
			{Role: RoleUser, Content: message},
		},
	}
}

func TestMockChatEchoes(t *testing.T) {
	mock := &Mock{}
	resp, err := mock.Chat(context.Background(), userRequest("What's the weather like?"))
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 0 {
		t.Fatalf("expected no tool calls, got %d", len(resp.ToolCalls))
	}
	if !strings.Contains(resp.Content, "What's the weather like?") {
		t.Errorf("response %q does not echo the message", resp.Content)
	}
}

func TestMockChatPasteToolCall(t *testing.T) {
	mock := &Mock{}
	resp, err := mock.Chat(context.Background(), userRequest("Paste 'Hello World' here please."))
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(resp.ToolCalls))
	}

	tc := resp.ToolCalls[0]
	if tc.Name != "paste_to_app" {
		t.Fatalf("tool name = %q, want paste_to_app", tc.Name)
	}

	var args struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
		t.Fatalf("arguments not valid JSON: %v", err)
	}
	if args.Content != "Hello World" {
		t.Errorf("content = %q, want %q", args.Content, "Hello World")
	}
}

func TestMockChatGitHubToolCall(t *testing.T) {
	mock := &Mock{}
	resp, err := mock.Chat(context.Background(), userRequest("Find a SwiftUI markdown parser on GitHub."))
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(resp.ToolCalls))
	}
	if resp.ToolCalls[0].Name != "search_github" {
		t.Errorf("tool name = %q, want search_github", resp.ToolCalls[0].Name)
	}
}

func TestMockChatSecondPassSummarizes(t *testing.T) {
	mock := &Mock{}
	req := &ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "system prompt"},
			{Role: RoleUser, Content: "Find repos about GitHub search"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_mock_1", Name: "search_github", Arguments: `{"query":"x"}`}}},
			{Role: RoleTool, Content: "1. some/repo (100 stars)", ToolCallID: "call_mock_1", Name: "search_github"},
		},
	}

	resp, err := mock.Chat(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.ToolCalls) != 0 {
		t.Fatal("second pass should not request tools")
	}
	if !strings.Contains(resp.Content, "some/repo") {
		t.Errorf("second-pass response %q does not include tool output", resp.Content)
	}
}

func TestMockVisionFixedPlaceholder(t *testing.T) {
	mock := &Mock{}
	got, err := mock.Vision(context.Background(), "describe this", []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatal(err)
	}
	if got != MockVisionResponse {
		t.Errorf("vision response = %q, want fixed placeholder", got)
	}
}
