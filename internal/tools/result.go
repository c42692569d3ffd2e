package tools

// ToolResult is the outcome of a tool execution or validation.
type ToolResult struct {
	Output  string
	IsError bool
}

// ErrorResult creates a ToolResult representing a tool-level error. These are
// recoverable: they are reported back, never raised as request failures.
func ErrorResult(msg string) *ToolResult {
	return &ToolResult{Output: msg, IsError: true}
}
