package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/yhinai/clippy/internal/llm"
)

const reflectItemLimit = 10

// Reflect regenerates the persona block from recently archived clippings and
// swaps it in. It is advisory: it runs independently of the message path,
// in-flight requests keep the persona snapshot they read at prompt-build
// time, and any failure leaves the current persona in place. In mock mode it
// returns the current persona unchanged.
func (a *Agent) Reflect(ctx context.Context) (string, error) {
	if a.mock {
		return a.Persona(), nil
	}

	current := a.Persona()

	items, err := a.store.List(ctx, reflectItemLimit)
	if err != nil {
		a.logger.Warn("reflect: listing memory failed", "error", err)
		return current, nil
	}
	if len(items) == 0 {
		return current, nil
	}

	var recent strings.Builder
	for _, item := range items {
		fmt.Fprintf(&recent, "- %s\n", truncate(item.Text, memoryPreviewLen))
	}

	prompt := fmt.Sprintf(`Here is your current self-description:

%s

Here are the user's recent clipboard captures:

%s
Rewrite the self-description so it stays accurate to how this user actually
works. Keep the same tone and length. Reply with the new self-description
only, no preamble.`, current, recent.String())

	resp, err := a.chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		a.logger.Warn("reflect: persona regeneration failed", "error", err)
		return current, nil
	}

	updated := strings.TrimSpace(resp.Content)

	a.mu.Lock()
	a.persona = updated
	a.mu.Unlock()

	a.logger.Info("persona block updated by reflection")
	return updated, nil
}
