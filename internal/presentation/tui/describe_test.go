package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/narrative/internal/presentation/tui"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s, err := scheme.New(scheme.SchemeInput{Name: "Flow", FileExtension: "flow"}).
		WithViewModes("SIMPLE").
		AddCategory("Steps").
		AddAsset(scheme.Asset{Type: "note", Label: "Note", FileTransformRules: []scheme.FileTransformRule{{SourceName: "a.md", TargetName: "a.json"}}}).
		AddContainer(scheme.Container{Type: "box", Label: "Box", AllowedEntities: scheme.AllowOnly()}).
		AddConstruct(scheme.Construct{Type: "task", Label: "Task"}).
		AddScript(scheme.Script{Type: "board"}).
		AddFrameGroup(scheme.FrameGroup{Label: &scheme.Label{Text: "Phases"}, FrameLimits: scheme.Between(1, 3), AllowedActions: scheme.ActionAll}).
		AddFrame(scheme.Frame{}).
		Build()
	require.NoError(t, err)

	md := tui.Describe(s)
	assert.True(t, strings.HasPrefix(md, "# Flow\n"))
	assert.Contains(t, md, "View modes: SIMPLE")
	assert.Contains(t, md, "## Steps")
	assert.Contains(t, md, "| Note | `note` | `a.md` ⇄ `a.json` |")
	assert.Contains(t, md, "container **Box** (`box`), allows nothing")
	assert.Contains(t, md, "### Task (`task`)")
	assert.Contains(t, md, "frames **Phases**: 1 frame(s), groups 0..0, frames 1..3, actions ALL")
}

func TestRenderer_Plain(t *testing.T) {
	render := tui.NewRenderer(false, 0)
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	tui.Status(&buf, true, "scheme is valid")
	tui.Status(&buf, false, "broken")
	assert.Contains(t, buf.String(), "scheme is valid")
	assert.Contains(t, buf.String(), "broken")
}
