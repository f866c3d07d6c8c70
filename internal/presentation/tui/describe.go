package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/narrative/pkg/scheme"
)

// Describe renders a scheme as a markdown outline.
func Describe(s *scheme.Scheme) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", s.Name)
	if s.FileExtension != "" {
		fmt.Fprintf(&sb, "File extension: `.%s`", s.FileExtension)
		if s.DefaultConstruct != "" {
			fmt.Fprintf(&sb, " · default construct: `%s`", s.DefaultConstruct)
		}
		sb.WriteString("\n\n")
	}
	if len(s.ViewModes) > 0 {
		modes := make([]string, len(s.ViewModes))
		for i, m := range s.ViewModes {
			modes[i] = string(m)
		}
		fmt.Fprintf(&sb, "View modes: %s\n\n", strings.Join(modes, ", "))
	}

	for _, cat := range s.Categories {
		fmt.Fprintf(&sb, "## %s\n\n", cat.Name)
		if len(cat.Assets) > 0 {
			sb.WriteString("| Asset | Type | Transforms |\n|---|---|---|\n")
			for _, a := range cat.Assets {
				fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", a.Label, a.Type, transforms(a.FileTransformRules))
			}
			sb.WriteString("\n")
		}
		for _, c := range cat.Containers {
			fmt.Fprintf(&sb, "- container **%s** (`%s`)%s\n", c.Label, c.Type, allowed(c.AllowedEntities))
		}
		if len(cat.Containers) > 0 {
			sb.WriteString("\n")
		}
		for _, c := range cat.Constructs {
			fmt.Fprintf(&sb, "### %s (`%s`)\n\n", display(c.Label, c.Type), c.Type)
			if len(c.FileTransformRules) > 0 {
				fmt.Fprintf(&sb, "Transforms: %s\n\n", transforms(c.FileTransformRules))
			}
			if c.Script != nil {
				describeScript(&sb, c.Script)
			}
		}
	}
	return sb.String()
}

func describeScript(sb *strings.Builder, sc *scheme.Script) {
	fmt.Fprintf(sb, "Script `%s`\n\n", sc.Type)
	for _, g := range sc.FrameGroups {
		fmt.Fprintf(sb, "- frames **%s**: %d frame(s), groups %s, frames %s, actions %s%s\n",
			labelText(g.Label), len(g.Frames), g.FrameGroupLimits, g.FrameLimits, g.AllowedActions, allowed(g.AllowedEntities))
	}
	for _, g := range sc.LaneGroups {
		fmt.Fprintf(sb, "- lanes **%s**: %d lane(s), groups %s, lanes %s, actions %s%s\n",
			labelText(g.Label), len(g.Lanes), g.LaneGroupLimits, g.LaneLimits, g.AllowedActions, allowed(g.AllowedEntities))
	}
	sb.WriteString("\n")
}

func transforms(rules []scheme.FileTransformRule) string {
	if len(rules) == 0 {
		return "-"
	}
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("`%s` ⇄ `%s`", r.SourceName, r.TargetName)
	}
	return strings.Join(parts, ", ")
}

func allowed(a *scheme.AllowedEntityTypes) string {
	if a == nil {
		return ""
	}
	if a.Kind != scheme.AllowSpecific {
		return fmt.Sprintf(", allows %s", a.Kind)
	}
	refs := make([]string, len(a.Entities))
	for i, e := range a.Entities {
		refs[i] = "`" + string(e) + "`"
	}
	if len(refs) == 0 {
		return ", allows nothing"
	}
	return ", allows " + strings.Join(refs, " ")
}

func labelText(l *scheme.Label) string {
	if l == nil || l.Text == "" {
		return "untitled"
	}
	return l.Text
}

func display(label, typ string) string {
	if label == "" {
		return typ
	}
	return label
}
