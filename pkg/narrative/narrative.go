package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/narrative/internal/logging"
	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/aretw0/narrative/pkg/registry"
	"github.com/aretw0/narrative/pkg/scheme"
	"github.com/mohae/deepcopy"
)

// EventHandler receives the payload of a subscribed event. Handlers run one
// at a time on the channel's delivery goroutine, which also delivers
// responses. A handler must not wait on CreateScheme or SendCommand: the
// response can never arrive while the handler blocks. Start a goroutine for
// follow-up requests instead.
type EventHandler func(payload any)

// Narrative is the authoring side of the boundary. It sends schemes and
// commands to a host and routes the host's events to subscribers.
//
// Responses carry no request id: each command-response completes the oldest
// outstanding CreateScheme or SendCommand call. This is only correct while
// the channel preserves order and the host answers in order.
type Narrative struct {
	ch       ports.Channel
	registry *registry.Registry
	logger   *slog.Logger

	// sendMu keeps the waiter queue in the same order as the posts.
	sendMu sync.Mutex

	mu            sync.Mutex
	waiters       []*waiter
	subscriptions []subscription
}

type waiter struct {
	op   string
	done chan error
}

type subscription struct {
	kinds   map[string]struct{}
	handler EventHandler
}

// Option defines a functional option for configuring a Narrative.
type Option func(*Narrative)

// WithRegistry sets the registry used to externalize callbacks
// (default: registry.Default()).
func WithRegistry(r *registry.Registry) Option {
	return func(n *Narrative) {
		n.registry = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Narrative) {
		n.logger = logger
	}
}

// New binds a Narrative to ch and starts listening on it.
func New(ch ports.Channel, opts ...Option) *Narrative {
	n := &Narrative{
		ch:       ch,
		registry: registry.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	ch.Listen(n.receive)
	return n
}

// Registry returns the registry callbacks are externalized into.
func (n *Narrative) Registry() *registry.Registry {
	return n.registry
}

// CreateScheme externalizes a copy of s, sends it to the host and waits for
// the host's response. s is not modified.
func (n *Narrative) CreateScheme(ctx context.Context, s *scheme.Scheme) error {
	if s == nil {
		return fmt.Errorf("create scheme: nil scheme")
	}
	clone := deepcopy.Copy(s).(*scheme.Scheme)
	out, err := n.registry.Externalize(clone)
	if err != nil {
		return err
	}
	return n.request(ctx, "create-scheme", protocol.CreateScheme(out))
}

// SendCommand sends cmd to the host and waits for its response.
func (n *Narrative) SendCommand(ctx context.Context, cmd domain.Command) error {
	return n.request(ctx, cmd.CommandClass(), protocol.Command(cmd.CommandClass(), cmd.CommandParams()))
}

// SubscribeToEvents sends one subscribe message per kind and invokes handler
// for every later event of those kinds. It does not wait for the host.
// Subscriptions last as long as the channel.
func (n *Narrative) SubscribeToEvents(ctx context.Context, kinds []string, handler EventHandler) error {
	sub := subscription{kinds: make(map[string]struct{}, len(kinds)), handler: handler}
	for _, k := range kinds {
		sub.kinds[k] = struct{}{}
	}

	n.mu.Lock()
	n.subscriptions = append(n.subscriptions, sub)
	n.mu.Unlock()

	for _, k := range kinds {
		if err := n.ch.Post(ctx, protocol.Subscribe(k)); err != nil {
			return fmt.Errorf("subscribe %s: %w", k, err)
		}
	}
	return nil
}

// UpdateReadModel sends data to the host. No response is expected.
func (n *Narrative) UpdateReadModel(ctx context.Context, data any) error {
	if err := n.ch.Post(ctx, protocol.UpdateStore(data)); err != nil {
		return fmt.Errorf("update read model: %w", err)
	}
	return nil
}

// Pending returns the number of requests still waiting for a response,
// including those whose callers gave up.
func (n *Narrative) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.waiters)
}

// request queues a waiter, posts msg and blocks until a response completes
// the waiter or ctx is done. A cancelled caller leaves its slot queued so the
// next response still goes to the request it answers.
func (n *Narrative) request(ctx context.Context, op string, msg protocol.Message) error {
	w := &waiter{op: op, done: make(chan error, 1)}

	n.sendMu.Lock()
	n.mu.Lock()
	n.waiters = append(n.waiters, w)
	n.mu.Unlock()

	if err := n.ch.Post(ctx, msg); err != nil {
		n.drop(w)
		n.sendMu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	n.sendMu.Unlock()

	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		n.logger.Debug("abandoned wait for response", "op", op, "err", ctx.Err())
		return ctx.Err()
	}
}

// drop removes a waiter whose message never left.
func (n *Narrative) drop(w *waiter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, q := range n.waiters {
		if q == w {
			n.waiters = append(n.waiters[:i], n.waiters[i+1:]...)
			return
		}
	}
}

func (n *Narrative) receive(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeCommandResponse:
		n.complete(msg)
	case protocol.TypeEvent:
		n.dispatch(msg)
	default:
		n.logger.Debug("ignoring message", "type", msg.Type)
	}
}

func (n *Narrative) complete(msg protocol.Message) {
	n.mu.Lock()
	if len(n.waiters) == 0 {
		n.mu.Unlock()
		n.logger.Warn("response with no pending request", "error", msg.Error)
		return
	}
	w := n.waiters[0]
	n.waiters = n.waiters[1:]
	n.mu.Unlock()

	if msg.Error != "" {
		w.done <- &RemoteCommandError{Op: w.op, Message: msg.Error}
		return
	}
	w.done <- nil
}

func (n *Narrative) dispatch(msg protocol.Message) {
	n.mu.Lock()
	subs := make([]subscription, len(n.subscriptions))
	copy(subs, n.subscriptions)
	n.mu.Unlock()

	for _, s := range subs {
		if _, ok := s.kinds[msg.Event]; ok {
			s.handler(msg.Payload)
		}
	}
}
