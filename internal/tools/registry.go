package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yhinai/clippy/internal/llm"
)

// Site is where a tool call is resolved: inside this process, or delegated
// to the host application.
type Site int

const (
	// SiteServer tools execute here; their results are fed back to the model.
	SiteServer Site = iota
	// SiteClient tools are serialized and returned to the host unexecuted.
	SiteClient
)

// Tool is the interface that all tools implement. For client-site tools
// Execute only validates the arguments; the host performs the action.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Site() Site
	Execute(ctx context.Context, arguments string) (*ToolResult, error)
}

// Registry holds a set of tools keyed by name.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Panics on duplicate names.
func (r *Registry) Register(t Tool) {
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		panic(fmt.Sprintf("tools: duplicate tool name %q", name))
	}
	r.tools[name] = t
	r.order = append(r.order, name)
}

// Get looks up a tool by name. Returns nil if not found.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Specs returns the declared tool schema for inclusion in model requests.
func (r *Registry) Specs() []llm.ToolSpec {
	out := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llm.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return out
}

// DefaultRegistry returns a registry pre-loaded with the sidecar's tools.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SearchGitHubTool{})
	r.Register(&FetchPageTool{})
	r.Register(&PasteToAppTool{})
	return r
}
