package jsonl_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/narrative/pkg/adapters/jsonl"
	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipePair(t *testing.T) (ports.Channel, ports.Channel) {
	toHostR, toHostW := io.Pipe()
	toAuthorR, toAuthorW := io.Pipe()
	author := jsonl.New(toAuthorR, toHostW)
	host := jsonl.New(toHostR, toAuthorW)
	return author, host
}

func TestJSONLChannel_Contract(t *testing.T) {
	ports.RunChannelContract(t, newPipePair)
}

func TestJSONLChannel_WritesOneLinePerMessage(t *testing.T) {
	var out bytes.Buffer
	ch := jsonl.New(strings.NewReader(""), &out)

	require.NoError(t, ch.Post(context.Background(), protocol.Command("TestCommand", map[string]any{"key": "value"})))
	require.NoError(t, ch.Post(context.Background(), protocol.Subscribe("TestEvent")))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"command","commandClass":"TestCommand","params":{"key":"value"}}`, lines[0])
	assert.JSONEq(t, `{"type":"subscribe","event":"TestEvent"}`, lines[1])
}

func TestJSONLChannel_SkipsMalformedLines(t *testing.T) {
	input := "not json\n{\"type\":\"event\",\"event\":\"A\",\"payload\":{\"k\":1}}\n\n{}\n"
	ch := jsonl.New(strings.NewReader(input), io.Discard)

	var mu sync.Mutex
	var got []protocol.Message
	ch.Listen(func(msg protocol.Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	})

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not stop at EOF")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Event)
	assert.Equal(t, map[string]any{"k": float64(1)}, got[0].Payload)
	assert.NoError(t, ch.Err())
}
