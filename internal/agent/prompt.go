package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/pkg/api"
)

const (
	clipboardPreviewLen = 200
	memoryPreviewLen    = 240
)

const defaultPersona = `You are Clippy, a helpful desktop assistant living in the user's menu bar.
You can see what the user copies and which application is in front, and you help
them act on it: summarizing, rewriting, looking things up, and pasting results
back into their apps. You are concise, warm, and never condescending.`

const defaultHuman = `The user is a software developer working on a Mac.
They copy code snippets, error messages, and links throughout the day and
prefer short, direct answers.`

const instructionSuffix = `Answer concisely. Use your tools when they genuinely help.
When the user asks you to paste, insert, or type something, call paste_to_app
with the exact text they want — do not paraphrase it.`

// buildSystemPrompt layers the core memory blocks, the host's situational
// context, and retrieved archival memory into one system message.
func (a *Agent) buildSystemPrompt(memories []memory.Result, actx api.AgentContext) string {
	a.mu.RLock()
	persona, human := a.persona, a.human
	a.mu.RUnlock()

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n## About the user\n")
	b.WriteString(human)

	b.WriteString("\n\n## Current context\n")
	if actx.AppName != "" {
		fmt.Fprintf(&b, "Active application: %s\n", actx.AppName)
	}
	if len(actx.ClipboardItems) > 0 {
		b.WriteString("Recent clipboard items:\n")
		for _, item := range actx.ClipboardItems {
			fmt.Fprintf(&b, "- %s\n", truncate(item.Content, clipboardPreviewLen))
		}
	}
	if actx.AppName == "" && len(actx.ClipboardItems) == 0 {
		b.WriteString("(none provided)\n")
	}

	if len(memories) > 0 {
		b.WriteString("\n## Related past clippings\n")
		for _, r := range memories {
			if r.Item.SourceApp != "" {
				fmt.Fprintf(&b, "- [%s] %s\n", r.Item.SourceApp, truncate(r.Item.Text, memoryPreviewLen))
			} else {
				fmt.Fprintf(&b, "- %s\n", truncate(r.Item.Text, memoryPreviewLen))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(instructionSuffix)
	return b.String()
}

// truncate shortens s to at most n characters, marking the cut. Cuts fall on
// rune boundaries so multi-byte content stays valid UTF-8.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
