package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/narrative/pkg/scheme"
)

// GenerateMermaid produces a Mermaid flowchart of the scheme's structure.
// Shapes follow the element kind:
// - Category: [Rectangle]
// - Asset: ([Stadium])
// - Container: [[Subroutine]]
// - Construct: (Rounded) or [Square] per its shape, ((Circle)) when unset
// - Script: {{Hexagon}}
// - Frame/Lane group: [/Parallelogram/]
// Frames and lanes are listed inside their group's label.
func GenerateMermaid(s *scheme.Scheme) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := sanitizeMermaidID(s.Name)
	if root == "" {
		root = "scheme"
	}
	fmt.Fprintf(&sb, "    %s[\"%s\"]\n", root, escape(s.Name))

	for i, cat := range s.Categories {
		catID := fmt.Sprintf("%s_c%d", root, i)
		node(&sb, catID, "[", "]", cat.Name)
		edge(&sb, root, catID)

		for j, a := range cat.Assets {
			id := fmt.Sprintf("%s_a%d", catID, j)
			node(&sb, id, "([", "])", display(a.Label, a.Type))
			edge(&sb, catID, id)
		}
		for j, c := range cat.Containers {
			id := fmt.Sprintf("%s_b%d", catID, j)
			node(&sb, id, "[[", "]]", display(c.Label, c.Type))
			edge(&sb, catID, id)
		}
		for j, c := range cat.Constructs {
			id := fmt.Sprintf("%s_k%d", catID, j)
			opener, closer := "((", "))"
			switch c.Shape {
			case scheme.ShapeRectangle:
				opener, closer = "(", ")"
			case scheme.ShapeSquare:
				opener, closer = "[", "]"
			}
			node(&sb, id, opener, closer, display(c.Label, c.Type))
			edge(&sb, catID, id)
			if c.Script != nil {
				script(&sb, id, c.Script)
			}
		}
	}
	return sb.String()
}

func script(sb *strings.Builder, parent string, sc *scheme.Script) {
	id := parent + "_s"
	node(sb, id, "{{", "}}", display(sc.Label, sc.Type))
	edge(sb, parent, id)

	for i, g := range sc.FrameGroups {
		gid := fmt.Sprintf("%s_f%d", id, i)
		labels := make([]string, 0, len(g.Frames))
		for _, f := range g.Frames {
			labels = append(labels, labelText(f.Label))
		}
		node(sb, gid, "[/", "/]", group(labelText(g.Label), g.FrameLimits, labels))
		edge(sb, id, gid)
	}
	for i, g := range sc.LaneGroups {
		gid := fmt.Sprintf("%s_l%d", id, i)
		labels := make([]string, 0, len(g.Lanes))
		for _, l := range g.Lanes {
			labels = append(labels, labelText(l.Label))
		}
		node(sb, gid, "[/", "/]", group(labelText(g.Label), g.LaneLimits, labels))
		edge(sb, id, gid)
	}
}

func group(name string, limits scheme.Limits, cells []string) string {
	if name == "" {
		name = "group"
	}
	text := fmt.Sprintf("%s (%s)", name, limits)
	if len(cells) > 0 {
		text += " <br/> " + strings.Join(cells, " | ")
	}
	return text
}

func node(sb *strings.Builder, id, opener, closer, text string) {
	fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", id, opener, escape(text), closer)
}

func edge(sb *strings.Builder, from, to string) {
	fmt.Fprintf(sb, "    %s --> %s\n", from, to)
}

func labelText(l *scheme.Label) string {
	if l == nil {
		return ""
	}
	return l.Text
}

func display(label, typ string) string {
	if label == "" {
		return typ
	}
	return label
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
