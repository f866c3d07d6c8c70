package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/narrative/internal/presentation/graph"
	"github.com/aretw0/narrative/pkg/scheme"
)

func TestGenerateMermaid(t *testing.T) {
	s, err := scheme.New(scheme.SchemeInput{Name: "My Flow"}).
		AddCategory("Steps").
		AddAsset(scheme.Asset{Type: "note", Label: "Note"}).
		AddContainer(scheme.Container{Type: "box"}).
		AddConstruct(scheme.Construct{Type: "task", Label: `Say "hi"`, Shape: scheme.ShapeSquare}).
		AddScript(scheme.Script{Type: "board"}).
		AddFrameGroup(scheme.FrameGroup{Label: &scheme.Label{Text: "Phases"}, FrameLimits: scheme.Between(1, 3)}).
		AddFrame(scheme.Frame{Label: &scheme.Label{Text: "Plan"}}).
		AddFrame(scheme.Frame{Label: &scheme.Label{Text: "Do"}}).
		AddLaneGroup(scheme.LaneGroup{LaneLimits: scheme.AtLeast(0)}).
		AddConstruct(scheme.Construct{Type: "event"}).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	got := graph.GenerateMermaid(s)

	for _, want := range []string{
		"graph TD\n",
		`My_Flow["My Flow"]`,
		`My_Flow_c0["Steps"]`,
		"My_Flow --> My_Flow_c0",
		`My_Flow_c0_a0(["Note"])`,
		`My_Flow_c0_b0[["box"]]`,
		`My_Flow_c0_k0["Say 'hi'"]`,
		`My_Flow_c0_k0_s{{"board"}}`,
		`My_Flow_c0_k0_s_f0[/"Phases (1..3) <br/> Plan | Do"/]`,
		`My_Flow_c0_k0_s_l0[/"group (0..inf)"/]`,
		`My_Flow_c0_k1(("event"))`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
}
