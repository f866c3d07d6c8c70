// Package fanout holds the listener list shared by channel adapters.
package fanout

import (
	"sync"

	"github.com/aretw0/narrative/pkg/ports"
	"github.com/aretw0/narrative/pkg/protocol"
)

// Listeners is an append-only list of listeners.
// Safe for concurrent use.
type Listeners struct {
	mu sync.RWMutex
	ls []ports.Listener
}

// Add appends a listener.
func (f *Listeners) Add(l ports.Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ls = append(f.ls, l)
}

// Dispatch invokes every listener, in the order added, with msg.
// Callers must serialize Dispatch calls to keep delivery one at a time.
func (f *Listeners) Dispatch(msg protocol.Message) {
	f.mu.RLock()
	ls := append([]ports.Listener(nil), f.ls...)
	f.mu.RUnlock()
	for _, l := range ls {
		l(msg)
	}
}

// Len returns the number of listeners.
func (f *Listeners) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ls)
}
