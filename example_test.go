package narrative_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/narrative/pkg/adapters/memory"
	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/host"
	"github.com/aretw0/narrative/pkg/narrative"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
)

// Example_memory builds a scheme, sends it to an in-process host and adds
// an entity on the canvas.
func Example_memory() {
	s, err := scheme.New(scheme.SchemeInput{Name: "Flow", FileExtension: "flow"}).
		AddCategory("Steps").
		AddAsset(scheme.Asset{
			Type:  "note",
			Label: "Note",
			FileTransformRules: []scheme.FileTransformRule{{
				SourceName: "note.md",
				TargetName: "note.txt",
				TransformToTarget: scheme.TransformWith(func(in, _ string, _ map[string]any) (string, error) {
					return strings.ToUpper(in), nil
				}),
			}},
		}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	authorEnd, hostEnd := memory.NewPair()
	reg := registry.New()
	h := host.New(hostEnd, host.WithRegistry(reg))
	defer h.Close()
	author := narrative.New(authorEnd, narrative.WithRegistry(reg))

	ctx := context.Background()
	if err := author.CreateScheme(ctx, s); err != nil {
		log.Fatal(err)
	}
	err = author.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{ID: "n1", Type: "note", Name: "Idea"}})
	if err != nil {
		log.Fatal(err)
	}

	rule := h.Scheme().Scheme.Categories[0].Assets[0].FileTransformRules[0]
	out, _ := rule.TransformToTarget.Call("draft", "note.md", nil)
	fmt.Println(rule.TransformToTarget.Key)
	fmt.Println(out)
	fmt.Println(len(h.Entities()))
	// Output:
	// transformToTarget:note.md->note.txt
	// DRAFT
	// 1
}
