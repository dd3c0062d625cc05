// Package export renders the canonical model into shareable diagram
// formats: Mermaid for embedding in markdown, Graphviz DOT for tooling, and
// SVG rendered through Graphviz.
//
// Exports work from the canonical model, not the live frame: hidden entities
// are skipped so an export reflects what the user currently sees.
package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pow3r-build/constellation/pkg/model"
)

// Options configures diagram exports.
type Options struct {
	// MaxNodes caps the number of nodes included, for readability of the
	// generated diagram. Zero means DefaultMaxNodes.
	MaxNodes int

	// IncludeHidden exports entities regardless of their visibility flags.
	IncludeHidden bool
}

// DefaultMaxNodes bounds exported diagrams when no explicit cap is given.
const DefaultMaxNodes = 200

// statusHex maps statuses to the hex palette used in exported diagrams.
var statusHex = map[model.Status]string{
	model.StatusBuilt:      "#4ade80",
	model.StatusBuilding:   "#fb923c",
	model.StatusBroken:     "#f87171",
	model.StatusBlocked:    "#f59e0b",
	model.StatusBacklogged: "#9ca3af",
	model.StatusBurned:     "#6b7280",
}

func hexColor(s model.Status) string {
	if c, ok := statusHex[s]; ok {
		return c
	}
	return statusHex[model.StatusBacklogged]
}

// selectNodes returns the exported node subset in canonical order, plus the
// ID set for edge endpoint checks.
func selectNodes(m *model.Model, opts Options) ([]*model.Node, map[string]bool) {
	max := opts.MaxNodes
	if max <= 0 {
		max = DefaultMaxNodes
	}

	var nodes []*model.Node
	ids := make(map[string]bool)
	for _, n := range m.Nodes {
		if !opts.IncludeHidden && !n.Visible {
			continue
		}
		nodes = append(nodes, n)
		ids[n.ID] = true
		if len(nodes) == max {
			break
		}
	}
	return nodes, ids
}

// ToDOT converts the model to Graphviz DOT format. Node fill colors follow
// the status palette; edges are labeled with their relationship type.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(m *model.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=10];\n")
	buf.WriteString("\n")

	if m.Empty() {
		buf.WriteString("}\n")
		return buf.String()
	}

	_, ids := selectNodes(m, opts)
	for _, c := range m.Clusters {
		if !opts.IncludeHidden && !c.Visible {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+c.ID)
		fmt.Fprintf(&buf, "    label=%q;\n", c.Name)
		for _, n := range m.ClusterNodes(c.ID) {
			if !ids[n.ID] {
				continue
			}
			label := fmt.Sprintf("%s\n%s %d%%", n.Name, n.Status, n.Progress)
			fmt.Fprintf(&buf, "    %q [label=%q, fillcolor=%q];\n", n.ID, label, hexColor(n.Status))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		if !ids[e.From] || !ids[e.To] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, string(e.Type))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToMermaid converts the model to a Mermaid graph block suitable for
// embedding in markdown.
func ToMermaid(m *model.Model, opts Options) string {
	lines := []string{"```mermaid", "graph TB"}

	if !m.Empty() {
		nodes, ids := selectNodes(m, opts)
		for _, n := range nodes {
			label := fmt.Sprintf("%s<br/>state: %s<br/>progress: %d%%",
				escapeMermaid(n.Name), n.Status, n.Progress)
			lines = append(lines, fmt.Sprintf("    %s[\"%s\"]", mermaidID(n.ID), label))
		}

		lines = append(lines, "")
		for _, e := range m.Edges {
			if !ids[e.From] || !ids[e.To] {
				continue
			}
			lines = append(lines, fmt.Sprintf("    %s -->|%s| %s",
				mermaidID(e.From), string(e.Type), mermaidID(e.To)))
		}
	}

	lines = append(lines, "```")
	return strings.Join(lines, "\n")
}

// mermaidID sanitizes an entity ID into a Mermaid-safe identifier.
func mermaidID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element to a zero-origin viewBox
// with explicit pixel dimensions, which embeds more predictably.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
