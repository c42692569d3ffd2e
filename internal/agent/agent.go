package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yhinai/clippy/internal/llm"
	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/internal/tools"
	"github.com/yhinai/clippy/pkg/api"
)

const (
	memoryLimit = 3

	// clientAckText is returned when tool calls are delegated to the host.
	// The delegation is one-shot: the turn ends without waiting for the host
	// to report completion.
	clientAckText = "On it — I've handed that over to your desktop app."
)

// Reply is the outcome of one message turn: free text for the user plus any
// tool calls the host must execute.
type Reply struct {
	Text        string
	ClientCalls []api.ClientToolCall
}

// Config configures the orchestrator. Store and Tools are required; Persona
// and Human fall back to built-in defaults.
type Config struct {
	Chat   llm.ChatFunc
	Vision llm.VisionFunc
	Store  memory.Store
	Tools  *tools.Registry
	Logger *slog.Logger

	Persona string
	Human   string

	// MockMode suppresses operations that would corrupt state when the model
	// is the canned mock (currently only persona reflection).
	MockMode bool
}

// Agent orchestrates one message turn: memory retrieval, prompt assembly,
// the model call, and tool-call routing. It holds no per-request state; the
// core memory blocks are read-only during a request.
type Agent struct {
	chat   llm.ChatFunc
	vision llm.VisionFunc
	store  memory.Store
	tools  *tools.Registry
	logger *slog.Logger
	mock   bool

	mu      sync.RWMutex
	persona string
	human   string
}

// New creates an Agent.
func New(cfg Config) *Agent {
	if cfg.Persona == "" {
		cfg.Persona = defaultPersona
	}
	if cfg.Human == "" {
		cfg.Human = defaultHuman
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Agent{
		chat:    cfg.Chat,
		vision:  cfg.Vision,
		store:   cfg.Store,
		tools:   cfg.Tools,
		logger:  cfg.Logger,
		mock:    cfg.MockMode,
		persona: cfg.Persona,
		human:   cfg.Human,
	}
}

// ProcessMessage turns a user message plus host context into a reply. Model
// failures never escape: they become apologetic reply text.
func (a *Agent) ProcessMessage(ctx context.Context, message string, actx api.AgentContext) (*Reply, error) {
	memories, err := a.store.Search(ctx, message, memoryLimit)
	if err != nil {
		// Retrieval is an enrichment, not a precondition: continue without it.
		a.logger.Warn("memory retrieval failed", "error", err)
		memories = nil
	}

	turns := []llm.Message{
		{Role: llm.RoleSystem, Content: a.buildSystemPrompt(memories, actx)},
		{Role: llm.RoleUser, Content: message},
	}

	resp, err := a.chat(ctx, &llm.ChatRequest{
		Messages: turns,
		Tools:    a.tools.Specs(),
	})
	if err != nil {
		a.logger.Warn("model call failed", "error", err)
		return &Reply{Text: apologize(err), ClientCalls: []api.ClientToolCall{}}, nil
	}

	if len(resp.ToolCalls) == 0 {
		return &Reply{Text: resp.Content, ClientCalls: []api.ClientToolCall{}}, nil
	}

	return a.resolveToolCalls(ctx, turns, resp)
}

// resolveToolCalls routes a batch of requested tool calls. If the batch
// contains any client-site call, nothing is executed here: all client calls
// are validated, packaged, and returned with a fixed acknowledgment, and any
// server-site calls in the same batch are dropped. A purely server-site batch
// is executed in order and fed back to the model for a final answer.
func (a *Agent) resolveToolCalls(ctx context.Context, turns []llm.Message, resp *llm.ChatResponse) (*Reply, error) {
	var clientCalls []api.ClientToolCall
	var skipped []string

	for _, tc := range resp.ToolCalls {
		tool := a.tools.Get(tc.Name)
		if tool == nil || tool.Site() != tools.SiteClient {
			continue
		}
		result, err := tool.Execute(ctx, tc.Arguments)
		if err != nil {
			result = tools.ErrorResult(fmt.Sprintf("tool %s failed: %v", tc.Name, err))
		}
		if result.IsError {
			// Malformed arguments: skip this call, explain instead of crashing.
			a.logger.Warn("rejected client tool call", "tool", tc.Name, "reason", result.Output)
			skipped = append(skipped, fmt.Sprintf("%s (%s)", tc.Name, result.Output))
			continue
		}
		clientCalls = append(clientCalls, api.ClientToolCall{
			Name:      tc.Name,
			Arguments: []byte(tc.Arguments),
		})
	}

	if len(clientCalls) > 0 {
		return &Reply{Text: clientAckText, ClientCalls: clientCalls}, nil
	}
	if len(skipped) > 0 {
		text := fmt.Sprintf("I tried to act on that, but the requested action was malformed and was skipped: %s", skipped[0])
		return &Reply{Text: text, ClientCalls: []api.ClientToolCall{}}, nil
	}

	return a.runServerTools(ctx, turns, resp)
}

// runServerTools executes a server-site batch and issues the second model
// call with the results appended. The turn sequence is extended, never
// mutated in place, so the exact second-pass message order is explicit:
// original turns, the assistant's tool request, then one tool turn per call.
func (a *Agent) runServerTools(ctx context.Context, turns []llm.Message, resp *llm.ChatResponse) (*Reply, error) {
	augmented := make([]llm.Message, 0, len(turns)+1+len(resp.ToolCalls))
	augmented = append(augmented, turns...)
	augmented = append(augmented, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: resp.ToolCalls,
	})

	for _, tc := range resp.ToolCalls {
		tool := a.tools.Get(tc.Name)

		var result *tools.ToolResult
		if tool == nil {
			result = tools.ErrorResult(fmt.Sprintf("unknown tool: %s", tc.Name))
		} else {
			var err error
			result, err = tool.Execute(ctx, tc.Arguments)
			if err != nil {
				result = tools.ErrorResult(fmt.Sprintf("tool %s failed: %v", tc.Name, err))
			}
		}
		if result.IsError {
			a.logger.Warn("tool execution failed", "tool", tc.Name, "reason", result.Output)
		}

		augmented = append(augmented, llm.Message{
			Role:       llm.RoleTool,
			Content:    result.Output,
			ToolCallID: tc.ID,
			Name:       tc.Name,
		})
	}

	// Second pass: no tool schema attached, the model must now answer in text.
	final, err := a.chat(ctx, &llm.ChatRequest{Messages: augmented})
	if err != nil {
		a.logger.Warn("second model call failed", "error", err)
		return &Reply{Text: apologize(err), ClientCalls: []api.ClientToolCall{}}, nil
	}

	return &Reply{Text: final.Content, ClientCalls: []api.ClientToolCall{}}, nil
}

// visionInstruction is the fixed prompt for screenshot description.
const visionInstruction = "Describe this image for a blind user. Focus on UI elements, visible text, and anything the user might be trying to read or interact with."

// ProcessVision describes an image for the user. Single turn, no tools, same
// fail-soft behavior as ProcessMessage.
func (a *Agent) ProcessVision(ctx context.Context, imagePNG []byte) (string, error) {
	text, err := a.vision(ctx, visionInstruction, imagePNG)
	if err != nil {
		a.logger.Warn("vision call failed", "error", err)
		return apologize(err), nil
	}
	return text, nil
}

// Persona returns the current persona block.
func (a *Agent) Persona() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.persona
}

func apologize(err error) string {
	return fmt.Sprintf("I'm sorry, I ran into a problem while talking to my model: %v", err)
}
