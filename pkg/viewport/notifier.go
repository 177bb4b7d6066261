package viewport

import (
	"sync"

	"github.com/matzehuels/movegraph/pkg/layout"
)

// Kind distinguishes zoom changes from pure pans.
type Kind int

const (
	KindZoom Kind = iota
	KindPan
)

func (k Kind) String() string {
	if k == KindPan {
		return "pan"
	}
	return "zoom"
}

// Event is a camera change.
type Event struct {
	Kind Kind
	Zoom float64
	Pan  layout.Point
}

// Notifier fans camera events out to subscribers. Delivery is synchronous
// and in subscription order.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	keys []int
}

// NewNotifier creates a notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(Event)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.keys = append(n.keys, id)
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			for i, k := range n.keys {
				if k == id {
					n.keys = append(n.keys[:i], n.keys[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to every subscriber.
func (n *Notifier) Publish(ev Event) {
	n.mu.RLock()
	fns := make([]func(Event), 0, len(n.keys))
	for _, k := range n.keys {
		fns = append(fns, n.subs[k])
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
