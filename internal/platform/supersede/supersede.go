package supersede

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Do when a newer call with the same key started
// before this one finished. The caller's result must be discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Group tracks the latest in-flight load per key. Starting a load cancels the
// previous one for the same key.
type Group struct {
	mu       sync.Mutex
	inflight map[string]*call
	seq      uint64
}

type call struct {
	id     uint64
	cancel context.CancelFunc
}

func (g *Group) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = map[string]*call{}
	}
	if prev, ok := g.inflight[key]; ok {
		prev.cancel()
	}
	g.seq++
	mine := &call{id: g.seq, cancel: cancel}
	g.inflight[key] = mine
	g.mu.Unlock()

	err := fn(ctx)

	g.mu.Lock()
	current := g.inflight[key]
	latest := current != nil && current.id == mine.id
	if latest {
		delete(g.inflight, key)
	}
	g.mu.Unlock()

	if !latest {
		return ErrSuperseded
	}
	return err
}

// InFlight reports how many keys have a load running.
func (g *Group) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
