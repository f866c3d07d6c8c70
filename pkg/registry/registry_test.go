package registry_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upper(in, _ string, _ map[string]any) (string, error) { return strings.ToUpper(in), nil }
func lower(in, _ string, _ map[string]any) (string, error) { return strings.ToLower(in), nil }

func merge(source, target string, _ map[string]any) (scheme.MergeResult, error) {
	return scheme.MergeResult{Source: source, Target: target}, nil
}

func buildScheme(t *testing.T) *scheme.Scheme {
	t.Helper()
	rule := scheme.FileTransformRule{
		SourceName:        "model.md",
		TargetName:        "model.json",
		TransformToTarget: scheme.TransformWith(upper),
		TransformToSource: scheme.TransformWith(lower),
		Merge:             scheme.MergeWith(merge),
	}
	s, err := scheme.New(scheme.SchemeInput{Name: "S"}).
		WithSerializationRules(scheme.SerializationRule{
			EntityType: "step",
			FileType:   "yaml",
			Match:      scheme.MatchWith(func(e domain.EntityBase) bool { return e.Type == "step" }),
			Serialize: scheme.SerializeWith(func(e domain.EntityBase) ([]scheme.SerializedModelFile, error) {
				return []scheme.SerializedModelFile{{FileName: e.ID + ".yaml"}}, nil
			}),
		}).
		AddCategory("C").
		AddAsset(scheme.Asset{Type: "doc", FileTransformRules: []scheme.FileTransformRule{rule}}).
		AddConstruct(scheme.Construct{Type: "step", FileTransformRules: []scheme.FileTransformRule{{
			SourceName:        "step.md",
			TargetName:        "step.json",
			TransformToTarget: scheme.TransformWith(upper),
		}}}).
		Build()
	require.NoError(t, err)
	return s
}

func TestRegistry_RegisterResolve(t *testing.T) {
	r := registry.New()
	_, ok := r.Resolve("missing")
	assert.False(t, ok, "a miss is not an error")

	r.Register("k", scheme.TransformFunc(upper))
	r.Register("k", scheme.TransformFunc(lower))
	fn, ok := r.ResolveTransform("k")
	require.True(t, ok)
	out, _ := fn("MiXeD", "", nil)
	assert.Equal(t, "mixed", out, "last write wins")
	assert.Equal(t, 1, r.Len())

	_, ok = r.ResolveMerge("k")
	assert.False(t, ok, "wrong callback type does not resolve")

	r.Register("plain", upper)
	_, ok = r.ResolveTransform("plain")
	assert.True(t, ok, "unnamed func types resolve too")
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := registry.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register(registry.Key(registry.RoleMerge, "a", string(rune('a'+i%26))), merge)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 26, r.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "transformToTarget:a.md->a.json", registry.Key(registry.RoleTransformToTarget, "a.md", "a.json"))
	assert.Equal(t, "serialize:step->yaml", registry.Key(registry.RoleSerialize, "step", "yaml"))
}

func TestExternalize(t *testing.T) {
	r := registry.New()
	s := buildScheme(t)

	out, err := r.Externalize(s)
	require.NoError(t, err)

	rule := out.Categories[0].Assets[0].FileTransformRules[0]
	assert.Equal(t, scheme.TransformRef{Key: "transformToTarget:model.md->model.json"}, rule.TransformToTarget)
	assert.Equal(t, scheme.TransformRef{Key: "transformToSource:model.md->model.json"}, rule.TransformToSource)
	assert.Equal(t, scheme.MergeRef{Key: "merge:model.md->model.json"}, rule.Merge)

	crule := out.Categories[0].Constructs[0].FileTransformRules[0]
	assert.Equal(t, "transformToTarget:step.md->step.json", crule.TransformToTarget.Key)
	assert.True(t, crule.Merge.IsZero())

	sr := out.SerializationRules[0]
	assert.Equal(t, scheme.MatchRef{Key: "match:step->yaml"}, sr.Match)
	assert.Equal(t, scheme.SerializeRef{Key: "serialize:step->yaml"}, sr.Serialize)

	assert.Equal(t, 6, r.Len())

	fn, ok := r.ResolveTransform(rule.TransformToSource.Key)
	require.True(t, ok)
	got, err := fn("ABC", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestExternalize_DoesNotMutateInput(t *testing.T) {
	r := registry.New()
	s := buildScheme(t)

	_, err := r.Externalize(s)
	require.NoError(t, err)

	rule := s.Categories[0].Assets[0].FileTransformRules[0]
	assert.NotNil(t, rule.TransformToTarget.Fn)
	assert.NotNil(t, rule.TransformToSource.Fn)
	assert.NotNil(t, rule.Merge.Fn)
	assert.Empty(t, rule.TransformToTarget.Key)
	assert.NotNil(t, s.SerializationRules[0].Serialize.Fn)
}

func TestExternalize_Deterministic(t *testing.T) {
	r := registry.New()

	first, err := r.Externalize(buildScheme(t))
	require.NoError(t, err)
	second, err := r.Externalize(buildScheme(t))
	require.NoError(t, err)

	assert.Equal(t,
		first.Categories[0].Assets[0].FileTransformRules,
		second.Categories[0].Assets[0].FileTransformRules)
	assert.Equal(t, 6, r.Len(), "re-externalizing overwrites the same keys")

	for _, ref := range []scheme.TransformRef{
		second.Categories[0].Assets[0].FileTransformRules[0].TransformToTarget,
		second.Categories[0].Constructs[0].FileTransformRules[0].TransformToTarget,
	} {
		_, ok := r.ResolveTransform(ref.Key)
		assert.True(t, ok, ref.Key)
	}
}

func TestExternalize_ConfigurationError(t *testing.T) {
	r := registry.New()
	s := buildScheme(t)
	s.Categories[0].Constructs[0].FileTransformRules[0].SourceName = ""

	_, err := r.Externalize(s)
	var cfgErr *registry.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "categories[0].constructs[0].fileTransformRules[0]", cfgErr.Path)

	s = buildScheme(t)
	s.SerializationRules[0].FileType = ""
	_, err = r.Externalize(s)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "serializationRules[0]", cfgErr.Path)
}

func TestExternalize_KeysOnlyPassThrough(t *testing.T) {
	r := registry.New()
	s, err := scheme.New(scheme.SchemeInput{Name: "Keys"}).
		AddCategory("C").
		AddAsset(scheme.Asset{Type: "a", FileTransformRules: []scheme.FileTransformRule{{
			TransformToTarget: scheme.TransformRef{Key: "custom-key"},
		}}}).
		Build()
	require.NoError(t, err)

	out, err := r.Externalize(s)
	require.NoError(t, err, "names are only required for inline callbacks")
	assert.Equal(t, "custom-key", out.Categories[0].Assets[0].FileTransformRules[0].TransformToTarget.Key)
	assert.Zero(t, r.Len())
}

func TestInternalize(t *testing.T) {
	r := registry.New()
	out, err := r.Externalize(buildScheme(t))
	require.NoError(t, err)
	out.Categories[0].Constructs[0].FileTransformRules[0].TransformToTarget.Key = "transformToTarget:unknown"

	in := r.Internalize(out)

	rule := in.Categories[0].Assets[0].FileTransformRules[0]
	res, err := rule.TransformToTarget.Call("abc", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "ABC", res)
	require.NotNil(t, rule.Merge.Fn)
	require.NotNil(t, in.SerializationRules[0].Match.Fn)

	miss := in.Categories[0].Constructs[0].FileTransformRules[0].TransformToTarget
	assert.Nil(t, miss.Fn, "unresolved keys stay bare")
	assert.Equal(t, "transformToTarget:unknown", miss.Key)

	assert.Nil(t, out.Categories[0].Assets[0].FileTransformRules[0].TransformToTarget.Fn, "input untouched")

	files, err := scheme.SerializeEntity(in.SerializationRules, domain.EntityBase{ID: "s1", Type: "step"})
	require.NoError(t, err)
	assert.Equal(t, "s1.yaml", files[0].FileName)
}

func TestDefault(t *testing.T) {
	assert.Same(t, registry.Default(), registry.Default())
}

func TestExternalizeInternalize_SkipNullEntries(t *testing.T) {
	reg := registry.New()
	s := &scheme.Scheme{
		Name:       "Decoded",
		Categories: []*scheme.Category{nil, {Name: "C", Constructs: []*scheme.Construct{nil}}},
	}

	out, err := reg.Externalize(s)
	require.NoError(t, err)
	require.Len(t, out.Categories, 2)
	assert.Nil(t, out.Categories[0])

	back := reg.Internalize(out)
	require.Len(t, back.Categories, 2)
	assert.Nil(t, back.Categories[1].Constructs[0])
}
