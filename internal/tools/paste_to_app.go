package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// PasteToAppTool instructs the host application to paste text into the active
// app. It runs on the client site: Execute only validates the arguments, and
// the call itself is handed back to the host unexecuted.
type PasteToAppTool struct{}

type pasteToAppArgs struct {
	Content string `json:"content"`
}

func (t *PasteToAppTool) Name() string { return "paste_to_app" }

func (t *PasteToAppTool) Description() string {
	return "Paste the given text into the user's currently active application. Use this when the user asks you to paste, insert, or type something for them."
}

func (t *PasteToAppTool) Parameters() json.RawMessage {
	return Schema{
		Type: "object",
		Properties: map[string]SchemaProperty{
			"content": {Type: "string", Description: "The exact text to paste into the active application"},
		},
		Required: []string{"content"},
	}.MustMarshal()
}

func (t *PasteToAppTool) Site() Site { return SiteClient }

func (t *PasteToAppTool) Execute(_ context.Context, arguments string) (*ToolResult, error) {
	var args pasteToAppArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Content == "" {
		return ErrorResult("content is required"), nil
	}
	return &ToolResult{Output: "paste delegated to host"}, nil
}
