package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/google/uuid"
)

// Handler executes one command class. A returned error is sent back to the
// author as the command-response error text.
type Handler func(ctx context.Context, params any) error

// Revision is a scheme accepted by the host.
type Revision struct {
	ID        string         `json:"id"`
	Scheme    *scheme.Scheme `json:"scheme"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Host is a reference host controller. It answers every create-scheme and
// command message with exactly one command-response, in arrival order.
type Host struct {
	ch       ports.Channel
	registry *registry.Registry
	logger   *slog.Logger
	metrics  *Metrics
	ctx      context.Context
	cancel   context.CancelFunc

	mu            sync.RWMutex
	current       *Revision
	handlers      map[string]Handler
	subscriptions map[string]struct{}
	readModel     any
	model         *Model
}

// Option defines a functional option for configuring a Host.
type Option func(*Host)

// WithRegistry sets the registry used to resolve callback keys of incoming
// schemes. Keys registered in another process do not resolve and stay keys.
func WithRegistry(r *registry.Registry) Option {
	return func(h *Host) {
		h.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithMetrics sets the collectors the host records into.
func WithMetrics(m *Metrics) Option {
	return func(h *Host) {
		h.metrics = m
	}
}

// New creates a host bound to ch and starts listening. The built-in
// AddEntityCommand and RenameEntityCommand handlers operate on Model.
func New(ch ports.Channel, opts ...Option) *Host {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Host{
		ch:            ch,
		registry:      registry.New(),
		logger:        logging.NewNop(),
		ctx:           ctx,
		cancel:        cancel,
		handlers:      make(map[string]Handler),
		subscriptions: make(map[string]struct{}),
		model:         NewModel(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(nil)
	}
	h.handlers[domain.CommandAddEntity] = Typed(h.addEntity)
	h.handlers[domain.CommandRenameEntity] = Typed(h.renameEntity)

	ch.Listen(h.receive)
	return h
}

// Handle registers fn for a command class, replacing any previous handler.
func (h *Host) Handle(class string, fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[class] = fn
}

// Scheme returns the current revision, or nil before the first create-scheme.
func (h *Host) Scheme() *Revision {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// ReadModel returns the data of the last update-store message.
func (h *Host) ReadModel() any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.readModel
}

// Subscriptions returns the subscribed event kinds.
func (h *Host) Subscriptions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	kinds := make([]string, 0, len(h.subscriptions))
	for k := range h.subscriptions {
		kinds = append(kinds, k)
	}
	return kinds
}

// Subscribed reports whether the author asked for events of kind.
func (h *Host) Subscribed(kind string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.subscriptions[kind]
	return ok
}

// Model returns the entity model the built-in handlers operate on.
func (h *Host) Model() *Model {
	return h.model
}

// Entities returns the model's entities in insertion order.
func (h *Host) Entities() []domain.EntityBase {
	return h.model.List()
}

// Metrics returns the host's collectors.
func (h *Host) Metrics() *Metrics {
	return h.metrics
}

// Emit sends an event to the author. Kinds nobody subscribed to are skipped.
func (h *Host) Emit(ctx context.Context, kind string, payload any) error {
	if !h.Subscribed(kind) {
		h.logger.Debug("event not subscribed, skipping", "event", kind)
		return nil
	}
	if err := h.ch.Post(ctx, protocol.Event(kind, payload)); err != nil {
		return fmt.Errorf("emit %s: %w", kind, err)
	}
	h.metrics.Events.WithLabelValues(kind).Inc()
	return nil
}

// Save emits ChangesSavedEvent with the changes recorded since the last save.
// Nothing is sent when there are none.
func (h *Host) Save(ctx context.Context) (domain.EntityChanges, error) {
	changes := h.model.Flush()
	if changes.Empty() {
		return changes, nil
	}
	return changes, h.Emit(ctx, domain.EventChangesSaved, domain.ChangesSavedEvent{Changes: changes})
}

// Serialize runs the current scheme's serialization rules for one entity.
// Rules whose callbacks did not resolve in this process fail with
// scheme.ErrUnresolvedCallback.
func (h *Host) Serialize(entityID string) ([]scheme.SerializedModelFile, error) {
	rev := h.Scheme()
	if rev == nil {
		return nil, domain.ErrNoScheme
	}
	entity, ok := h.model.Get(entityID)
	if !ok {
		return nil, &EntityNotFoundError{ID: entityID}
	}
	return scheme.SerializeEntity(rev.Scheme.SerializationRules, entity)
}

// Close stops in-flight handlers and closes the channel.
func (h *Host) Close() error {
	h.cancel()
	return h.ch.Close()
}

func (h *Host) receive(msg protocol.Message) {
	h.metrics.Messages.WithLabelValues(string(msg.Type)).Inc()

	switch msg.Type {
	case protocol.TypeCreateScheme:
		h.respond(h.createScheme(msg.Scheme))
	case protocol.TypeCommand:
		h.respond(h.command(msg.CommandClass, msg.Params))
	case protocol.TypeSubscribe:
		h.mu.Lock()
		h.subscriptions[msg.Event] = struct{}{}
		h.mu.Unlock()
		h.logger.Info("subscribed", "event", msg.Event)
	case protocol.TypeUpdateStore:
		h.mu.Lock()
		h.readModel = msg.Data
		h.mu.Unlock()
		h.logger.Debug("read model updated")
	default:
		h.logger.Warn("unexpected message", "type", msg.Type)
	}
}

func (h *Host) respond(err error) {
	if err != nil {
		h.logger.Warn("request failed", "err", err)
	}
	if perr := h.ch.Post(h.ctx, protocol.Response(err)); perr != nil {
		h.logger.Error("failed to send response", "err", perr)
	}
}

func (h *Host) createScheme(s *scheme.Scheme) error {
	if s == nil {
		return fmt.Errorf("create-scheme without a scheme")
	}
	s = h.registry.Internalize(s)
	if err := scheme.Validate(s); err != nil {
		return err
	}

	rev := &Revision{ID: uuid.NewString(), Scheme: s, CreatedAt: time.Now()}
	h.mu.Lock()
	h.current = rev
	h.mu.Unlock()
	h.logger.Info("scheme created", "name", s.Name, "revision", rev.ID, "categories", len(s.Categories))
	return nil
}

func (h *Host) command(class string, params any) error {
	h.mu.RLock()
	fn, ok := h.handlers[class]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, class)
	}
	h.logger.Debug("executing command", "class", class)
	return fn(h.ctx, params)
}

func (h *Host) addEntity(ctx context.Context, p domain.AddEntityParams) error {
	rev := h.Scheme()
	if rev == nil {
		return domain.ErrNoScheme
	}
	if !knownType(rev.Scheme, p.Type) {
		return fmt.Errorf("entity type %q is not in scheme %q", p.Type, rev.Scheme.Name)
	}
	if err := h.model.Add(domain.EntityBase{ID: p.ID, Name: p.Name, Type: p.Type, Position: p.Position}); err != nil {
		return err
	}
	h.notify(ctx, domain.EventEntitiesAdded, domain.EntitiesAddedEvent{EntityIDs: []string{p.ID}})
	return nil
}

func (h *Host) renameEntity(ctx context.Context, p domain.RenameEntityParams) error {
	if err := h.model.Rename(p.EntityID, p.NewName); err != nil {
		return err
	}
	h.notify(ctx, domain.EventEntityRenamed, domain.EntityRenamedEvent(p))
	return nil
}

// notify emits an event for a change that is already applied. The command
// succeeded either way, so a failed emit is only logged.
func (h *Host) notify(ctx context.Context, kind string, payload any) {
	if err := h.Emit(ctx, kind, payload); err != nil {
		h.logger.Warn("event not delivered", "event", kind, "err", err)
	}
}

func knownType(s *scheme.Scheme, entityType string) bool {
	for _, cat := range s.Categories {
		for _, a := range cat.Assets {
			if a.Type == entityType {
				return true
			}
		}
		for _, c := range cat.Constructs {
			if c.Type == entityType {
				return true
			}
		}
		for _, c := range cat.Containers {
			if c.Type == entityType {
				return true
			}
		}
	}
	return false
}
