package fanout

import (
	"testing"

	"github.com/aretw0/narrative/pkg/protocol"
	"github.com/stretchr/testify/assert"
)

func TestListeners_DispatchOrder(t *testing.T) {
	var f Listeners
	var order []string
	f.Add(func(msg protocol.Message) { order = append(order, "first:"+msg.Event) })
	f.Add(func(msg protocol.Message) { order = append(order, "second:"+msg.Event) })

	f.Dispatch(protocol.Subscribe("A"))
	f.Dispatch(protocol.Subscribe("B"))

	assert.Equal(t, []string{"first:A", "second:A", "first:B", "second:B"}, order)
	assert.Equal(t, 2, f.Len())
}
