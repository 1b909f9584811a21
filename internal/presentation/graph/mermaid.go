package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/gforms/pkg/domain"
)

const submitNode = "submit"

// GraphOverlay contains the realized path to highlight on the graph.
type GraphOverlay struct {
	// Path holds page indices in visit order. The last one is marked current.
	Path []int
}

// GenerateMermaid produces a Mermaid flowchart of the page graph.
//
// Page 1 is drawn as a circle and the end of the form as a stadium. Document
// order transitions use solid arrows, transitions a page declares for itself
// use thick arrows, and option transitions are labeled with the element and
// option that select them.
func GenerateMermaid(pages []*domain.Page, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, p := range pages {
		opener, closer := "[", "]"
		if p.Index == 0 {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(p), opener, escape(pageLabel(p)), closer)
	}
	fmt.Fprintf(&sb, "    %s([\"Submit\"])\n", submitNode)

	for _, p := range pages {
		arrow := "-->"
		if !p.HasDefaultNext() {
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(p), arrow, nodeID(p.DefaultNext()))

		for _, e := range p.Elements {
			c, ok := e.(*domain.Choice)
			if !ok || !c.HasActions() {
				continue
			}
			options := c.Options()
			if other, ok := c.OtherOption(); ok {
				options = append(options, other)
			}
			for _, o := range options {
				if !o.HasAction || o.Target == nil {
					continue
				}
				label := fmt.Sprintf("%s: %s", c.Header().Name, optionLabel(o))
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(p), escape(label), nodeID(o.Target))
			}
		}
	}

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[int]bool)
		last := overlay.Path[len(overlay.Path)-1]
		for _, idx := range overlay.Path[:len(overlay.Path)-1] {
			if !visited[idx] && idx != last {
				visited[idx] = true
				fmt.Fprintf(&sb, "    class p%d visited;\n", idx)
			}
		}
		fmt.Fprintf(&sb, "    class p%d current;\n", last)
	}

	return sb.String()
}

func nodeID(p *domain.Page) string {
	if p == nil || p == domain.SubmitPage {
		return submitNode
	}
	return fmt.Sprintf("p%d", p.Index)
}

func pageLabel(p *domain.Page) string {
	label := fmt.Sprintf("Page %d", p.Index+1)
	if name := p.Header().Name; name != "" {
		label += ": " + name
	}
	return label
}

func optionLabel(o domain.Option) string {
	if o.Other {
		return "Other"
	}
	return o.Value
}

// escape keeps labels inside Mermaid double quotes.
func escape(s string) string {
	return strings.NewReplacer("\"", "'", "\n", " ").Replace(s)
}
