package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PairFactory returns two connected channel ends.
type PairFactory func(t *testing.T) (author Channel, host Channel)

// collector records inbound messages for assertions.
type collector struct {
	mu   sync.Mutex
	msgs []protocol.Message
}

func (c *collector) listen(msg protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) snapshot() []protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Message(nil), c.msgs...)
}

// RunChannelContract runs a suite of tests to verify that a Channel implementation
// adheres to the defined interface contract.
func RunChannelContract(t *testing.T, newPair PairFactory) {
	ctx := context.Background()

	t.Run("Delivers in order", func(t *testing.T) {
		author, host := newPair(t)
		defer author.Close()
		defer host.Close()

		got := &collector{}
		host.Listen(got.listen)

		for _, kind := range []string{"A", "B", "C", "D"} {
			require.NoError(t, author.Post(ctx, protocol.Subscribe(kind)))
		}

		require.Eventually(t, func() bool { return len(got.snapshot()) == 4 }, 2*time.Second, 5*time.Millisecond)
		msgs := got.snapshot()
		for i, kind := range []string{"A", "B", "C", "D"} {
			assert.Equal(t, protocol.TypeSubscribe, msgs[i].Type)
			assert.Equal(t, kind, msgs[i].Event)
		}
	})

	t.Run("Delivers what was posted before Listen", func(t *testing.T) {
		author, host := newPair(t)
		defer author.Close()
		defer host.Close()

		// Post may block until the other end reads, as on a pipe.
		posted := make(chan error, 1)
		go func() {
			posted <- author.Post(ctx, protocol.Subscribe("Early"))
		}()
		time.Sleep(50 * time.Millisecond)

		got := &collector{}
		host.Listen(got.listen)

		require.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
		assert.Equal(t, "Early", got.snapshot()[0].Event)
		select {
		case err := <-posted:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Post did not return")
		}
	})

	t.Run("Bidirectional", func(t *testing.T) {
		author, host := newPair(t)
		defer author.Close()
		defer host.Close()

		fromHost := &collector{}
		author.Listen(fromHost.listen)

		require.NoError(t, host.Post(ctx, protocol.Response(nil)))
		require.NoError(t, host.Post(ctx, protocol.Event("ChangesSavedEvent", map[string]any{"k": 1})))

		require.Eventually(t, func() bool { return len(fromHost.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
		msgs := fromHost.snapshot()
		assert.Equal(t, protocol.TypeCommandResponse, msgs[0].Type)
		assert.Empty(t, msgs[0].Error)
		assert.Equal(t, protocol.TypeEvent, msgs[1].Type)
		assert.Equal(t, "ChangesSavedEvent", msgs[1].Event)
	})

	t.Run("Every listener sees every message", func(t *testing.T) {
		author, host := newPair(t)
		defer author.Close()
		defer host.Close()

		first, second := &collector{}, &collector{}
		host.Listen(first.listen)
		host.Listen(second.listen)

		require.NoError(t, author.Post(ctx, protocol.UpdateStore(map[string]any{"v": "x"})))

		require.Eventually(t, func() bool {
			return len(first.snapshot()) == 1 && len(second.snapshot()) == 1
		}, 2*time.Second, 5*time.Millisecond)
	})

	t.Run("Post after Close", func(t *testing.T) {
		author, host := newPair(t)
		defer host.Close()

		require.NoError(t, author.Close())
		assert.ErrorIs(t, author.Post(ctx, protocol.Subscribe("A")), ErrChannelClosed)
	})
}
