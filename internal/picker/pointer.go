package picker

import (
	"sync"

	"github.com/google/uuid"
)

type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box; the right and bottom edges are exclusive.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// PointerEvent is a pointer-down anywhere in the host surface.
type PointerEvent struct {
	At Point
}

// PointerSource delivers global pointer events. Subscribe returns the func
// that removes the subscription.
type PointerSource interface {
	Subscribe(fn func(PointerEvent)) (unsubscribe func())
}

// PointerBus is an in-process PointerSource. The host UI feeds it with
// Dispatch.
type PointerBus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]func(PointerEvent)
}

func NewPointerBus() *PointerBus {
	return &PointerBus{subs: make(map[uuid.UUID]func(PointerEvent))}
}

func (b *PointerBus) Subscribe(fn func(PointerEvent)) func() {
	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every subscriber. Handlers run outside the lock so
// they may unsubscribe.
func (b *PointerBus) Dispatch(ev PointerEvent) {
	b.mu.RLock()
	fns := make([]func(PointerEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len reports the number of live subscriptions.
func (b *PointerBus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
