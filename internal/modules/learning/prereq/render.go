package prereq

import (
	"html"
	"strings"
)

const defaultIndent = 4

type renderConfig struct {
	indent   int
	annotate bool
}

type RenderOption func(*renderConfig)

// WithIndent sets the number of spaces per tree level.
func WithIndent(n int) RenderOption {
	return func(c *renderConfig) {
		if n >= 0 {
			c.indent = n
		}
	}
}

// WithoutAnnotations drops the "[verb noun]" suffix.
func WithoutAnnotations() RenderOption {
	return func(c *renderConfig) { c.annotate = false }
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{indent: defaultIndent, annotate: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Render turns a forest into an indented outline, one line per node.
// Top-level nodes have no indentation.
func Render(f Forest, opts ...RenderOption) []string {
	cfg := newRenderConfig(opts)
	lines := []string{}
	f.Walk(func(depth int, n *Node) bool {
		lines = append(lines, strings.Repeat(" ", cfg.indent*depth)+nodeText(n, cfg.annotate))
		return true
	})
	return lines
}

// RenderText joins Render output with newlines.
func RenderText(f Forest, opts ...RenderOption) string {
	return strings.Join(Render(f, opts...), "\n")
}

// RenderHTML renders the outline with &nbsp; indentation and <br/> breaks.
// Titles and statement text are escaped.
func RenderHTML(f Forest, opts ...RenderOption) string {
	cfg := newRenderConfig(opts)
	var b strings.Builder
	f.Walk(func(depth int, n *Node) bool {
		b.WriteString(strings.Repeat("&nbsp;", cfg.indent*depth))
		b.WriteString(html.EscapeString(nodeText(n, cfg.annotate)))
		b.WriteString("<br/>")
		return true
	})
	return b.String()
}

func nodeText(n *Node, annotate bool) string {
	title := n.Resource.Label()
	if !annotate || n.Prerequisite == nil {
		return title
	}
	return title + " [" + n.Prerequisite.Verb + " " + n.Prerequisite.Noun + "]"
}
