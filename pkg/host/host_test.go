package host_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/narrative/pkg/adapters/memory"
	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/host"
	"github.com/aretw0/narrative/pkg/narrative"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	author *narrative.Narrative
	host   *host.Host
	reg    *registry.Registry
}

func setup(t *testing.T, opts ...host.Option) fixture {
	t.Helper()
	a, h := memory.NewPair()
	reg := registry.New()
	hst := host.New(h, append([]host.Option{host.WithRegistry(reg)}, opts...)...)
	n := narrative.New(a, narrative.WithRegistry(reg))
	t.Cleanup(func() {
		_ = a.Close()
		_ = hst.Close()
	})
	return fixture{author: n, host: hst, reg: reg}
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func flowScheme(t *testing.T) *scheme.Scheme {
	t.Helper()
	s, err := scheme.New(scheme.SchemeInput{Name: "Flow", FileExtension: "flow"}).
		AddCategory("Steps").
		AddAsset(scheme.Asset{
			Type:  "note",
			Label: "Note",
			FileTransformRules: []scheme.FileTransformRule{{
				SourceName: "note.md",
				TargetName: "note.txt",
				TransformToTarget: scheme.TransformWith(func(in, _ string, _ map[string]any) (string, error) {
					return strings.TrimSpace(in), nil
				}),
			}},
		}).
		AddConstruct(scheme.Construct{Type: "process", Label: "Process"}).
		Build()
	require.NoError(t, err)
	return s
}

func TestHost_CreateScheme(t *testing.T) {
	f := setup(t)
	require.Nil(t, f.host.Scheme())

	require.NoError(t, f.author.CreateScheme(ctxT(t), flowScheme(t)))

	rev := f.host.Scheme()
	require.NotNil(t, rev)
	_, err := uuid.Parse(rev.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Flow", rev.Scheme.Name)

	// Same registry on both sides: the key resolves back to the function.
	ref := rev.Scheme.Categories[0].Assets[0].FileTransformRules[0].TransformToTarget
	assert.Equal(t, "transformToTarget:note.md->note.txt", ref.Key)
	out, err := ref.Call("  hi  ", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	first := rev.ID
	require.NoError(t, f.author.CreateScheme(ctxT(t), flowScheme(t)))
	assert.NotEqual(t, first, f.host.Scheme().ID, "each scheme is a new revision")
}

func TestHost_CreateScheme_Invalid(t *testing.T) {
	f := setup(t)
	s, err := scheme.New(scheme.SchemeInput{Name: "Dup"}).
		AddCategory("A").
		AddCategory("A").
		Build()
	require.NoError(t, err)

	err = f.author.CreateScheme(ctxT(t), s)
	var remote *narrative.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Message, "categories[1].name")
	assert.Nil(t, f.host.Scheme())
}

func TestHost_UnknownCommand(t *testing.T) {
	f := setup(t)
	err := f.author.SendCommand(ctxT(t), domain.RawCommand{Class: "DeleteEverything"})
	var remote *narrative.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "unknown command: DeleteEverything", remote.Message)
}

func TestHost_AddEntityWithoutScheme(t *testing.T) {
	f := setup(t)
	err := f.author.SendCommand(ctxT(t), domain.AddEntityCommand{Params: domain.AddEntityParams{ID: "e1", Type: "note"}})
	var remote *narrative.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, domain.ErrNoScheme.Error(), remote.Message)
}

func TestHost_EntityLifecycle(t *testing.T) {
	f := setup(t)
	ctx := ctxT(t)
	require.NoError(t, f.author.CreateScheme(ctx, flowScheme(t)))

	var mu sync.Mutex
	var added []domain.EntitiesAddedEvent
	var saved []domain.ChangesSavedEvent
	require.NoError(t, f.author.SubscribeToEvents(ctx, []string{domain.EventEntitiesAdded}, func(p any) {
		var ev domain.EntitiesAddedEvent
		require.NoError(t, narrative.DecodePayload(p, &ev))
		mu.Lock()
		added = append(added, ev)
		mu.Unlock()
	}))
	require.NoError(t, f.author.SubscribeToEvents(ctx, []string{domain.EventChangesSaved}, func(p any) {
		var ev domain.ChangesSavedEvent
		require.NoError(t, narrative.DecodePayload(p, &ev))
		mu.Lock()
		saved = append(saved, ev)
		mu.Unlock()
	}))

	require.NoError(t, f.author.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{
		ID: "e1", Name: "Draft", Type: "note", Position: domain.Position{X: 1, Y: 2},
	}}))
	require.NoError(t, f.author.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{
		ID: "e2", Name: "Run", Type: "process",
	}}))

	err := f.author.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{ID: "e3", Type: "missing"}})
	assert.Error(t, err)

	// EntityRenamedEvent was not subscribed: the rename succeeds silently.
	require.NoError(t, f.author.SendCommand(ctx, domain.RenameEntityCommand{Params: domain.RenameEntityParams{EntityID: "e1", NewName: "Final"}}))

	e1, ok := f.host.Model().Get("e1")
	require.True(t, ok)
	assert.Equal(t, "Final", e1.Name)
	assert.Equal(t, domain.Position{X: 1, Y: 2}, e1.Position)

	changes, err := f.host.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, changes.Added, 2)
	assert.Empty(t, changes.Updated, "renames of new entities fold into the add")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(added) == 2 && len(saved) == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"e1"}, added[0].EntityIDs)
	assert.Equal(t, []string{"e2"}, added[1].EntityIDs)
	assert.Equal(t, "Final", saved[0].Changes.Added[0].Name)
	mu.Unlock()

	// A second save after a rename reports an update.
	require.NoError(t, f.author.SendCommand(ctx, domain.RenameEntityCommand{Params: domain.RenameEntityParams{EntityID: "e2", NewName: "Execute"}}))
	changes, err = f.host.Save(ctx)
	require.NoError(t, err)
	require.Len(t, changes.Updated, 1)
	assert.Equal(t, []string{"name"}, changes.Updated[0].ModifiedProperties)

	assert.ElementsMatch(t, []string{domain.EventEntitiesAdded, domain.EventChangesSaved}, f.host.Subscriptions())
}

func TestHost_RenameUnknownEntity(t *testing.T) {
	f := setup(t)
	err := f.author.SendCommand(ctxT(t), domain.RenameEntityCommand{Params: domain.RenameEntityParams{EntityID: "ghost", NewName: "x"}})
	var remote *narrative.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, `entity "ghost" not found`, remote.Message)
}

func TestHost_CustomHandler(t *testing.T) {
	f := setup(t)

	type moveParams struct {
		EntityID string
		X, Y     float64
	}
	var got moveParams
	f.host.Handle("MoveEntityCommand", host.Typed(func(_ context.Context, p moveParams) error {
		got = p
		return nil
	}))

	require.NoError(t, f.author.SendCommand(ctxT(t), domain.RawCommand{
		Class:  "MoveEntityCommand",
		Params: map[string]any{"entityId": "e1", "x": 3, "y": 4.5},
	}))
	assert.Equal(t, moveParams{EntityID: "e1", X: 3, Y: 4.5}, got)
}

func TestHost_ReadModelAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := setup(t, host.WithMetrics(host.NewMetrics(reg)))
	ctx := ctxT(t)

	require.NoError(t, f.author.UpdateReadModel(ctx, map[string]any{"count": 1}))
	// The host answers in order, so once this fails the update was applied.
	require.Error(t, f.author.SendCommand(ctx, domain.RawCommand{Class: "Nope"}))

	assert.Equal(t, map[string]any{"count": float64(1)}, f.host.ReadModel())

	m := f.host.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Messages.WithLabelValues("update-store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Messages.WithLabelValues("command")))

	n, err := testutil.GatherAndCount(reg, "narrative_host_messages_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHost_Serialize(t *testing.T) {
	f := setup(t)
	ctx := ctxT(t)

	s, err := scheme.New(scheme.SchemeInput{Name: "Flow"}).
		WithSerializationRules(scheme.SerializationRule{
			EntityType: "note",
			FileType:   "md",
			Serialize: scheme.SerializeWith(func(e domain.EntityBase) ([]scheme.SerializedModelFile, error) {
				return []scheme.SerializedModelFile{{FileName: e.ID + ".md", FileType: "md", Content: "# " + e.Name}}, nil
			}),
		}).
		AddCategory("Steps").
		AddAsset(scheme.Asset{Type: "note", Label: "Note"}).
		Build()
	require.NoError(t, err)

	_, err = f.host.Serialize("n1")
	require.ErrorIs(t, err, domain.ErrNoScheme)

	require.NoError(t, f.author.CreateScheme(ctx, s))
	require.NoError(t, f.author.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{ID: "n1", Type: "note", Name: "Idea"}}))

	files, err := f.host.Serialize("n1")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "n1.md", files[0].FileName)
	assert.Equal(t, "# Idea", files[0].Content)

	_, err = f.host.Serialize("missing")
	var notFound *host.EntityNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestHost_CreateScheme_NullCategory(t *testing.T) {
	f := setup(t)

	// Arrives on the wire as "categories":[null].
	err := f.author.CreateScheme(ctxT(t), &scheme.Scheme{Name: "S", FileExtension: "s", Categories: []*scheme.Category{nil}})
	var remote *narrative.RemoteCommandError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "categories[0]: empty category", remote.Message)
	assert.Nil(t, f.host.Scheme())

	// The host is still serving.
	require.NoError(t, f.author.CreateScheme(ctxT(t), flowScheme(t)))
	assert.NotNil(t, f.host.Scheme())
}

func TestHost_SubscriptionPostedBeforeHostStarts(t *testing.T) {
	a, b := memory.NewPair()
	t.Cleanup(func() { _ = a.Close() })
	n := narrative.New(a)

	require.NoError(t, n.SubscribeToEvents(ctxT(t), []string{domain.EventEntitiesAdded}, func(any) {}))

	h := host.New(b)
	t.Cleanup(func() { _ = h.Close() })
	require.Eventually(t, func() bool { return h.Subscribed(domain.EventEntitiesAdded) }, 2*time.Second, 5*time.Millisecond)
}

// eventlessChannel fails every event Post and passes everything else through.
type eventlessChannel struct {
	ports.Channel
}

func (c eventlessChannel) Post(ctx context.Context, msg protocol.Message) error {
	if msg.Type == protocol.TypeEvent {
		return errors.New("event stream down")
	}
	return c.Channel.Post(ctx, msg)
}

func TestHost_CommandSucceedsWhenEventIsLost(t *testing.T) {
	a, b := memory.NewPair()
	reg := registry.New()
	hst := host.New(eventlessChannel{Channel: b}, host.WithRegistry(reg))
	n := narrative.New(a, narrative.WithRegistry(reg))
	t.Cleanup(func() {
		_ = a.Close()
		_ = hst.Close()
	})
	ctx := ctxT(t)

	require.NoError(t, n.CreateScheme(ctx, flowScheme(t)))
	require.NoError(t, n.SubscribeToEvents(ctx, []string{domain.EventEntitiesAdded, domain.EventEntityRenamed}, func(any) {}))
	require.Eventually(t, func() bool { return hst.Subscribed(domain.EventEntityRenamed) }, time.Second, 5*time.Millisecond)

	require.NoError(t, n.SendCommand(ctx, domain.AddEntityCommand{Params: domain.AddEntityParams{ID: "e1", Type: "note", Name: "One"}}))
	require.NoError(t, n.SendCommand(ctx, domain.RenameEntityCommand{Params: domain.RenameEntityParams{EntityID: "e1", NewName: "Uno"}}))

	e, ok := hst.Model().Get("e1")
	require.True(t, ok)
	assert.Equal(t, "Uno", e.Name)
}
