package sim

import (
	"sync"
	"time"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

// Publisher hands out copies of the working set at most once per Interval.
// Snapshot may be called from any goroutine.
type Publisher struct {
	Interval time.Duration

	mu        sync.RWMutex
	last      time.Time
	snapshot  dynamo.Bodies
	observers []Observer
}

func NewPublisher(interval time.Duration) *Publisher {
	return &Publisher{Interval: interval}
}

func (p *Publisher) AddObserver(o Observer) {
	p.mu.Lock()
	p.observers = append(p.observers, o)
	p.mu.Unlock()
}

// Maybe publishes bodies if Interval has elapsed since the last publication
// and reports whether it did.
func (p *Publisher) Maybe(now time.Time, bodies dynamo.Bodies) bool {
	p.mu.RLock()
	due := p.last.IsZero() || now.Sub(p.last) >= p.Interval
	p.mu.RUnlock()
	if !due {
		return false
	}
	p.Publish(now, bodies)
	return true
}

// Publish stores a copy of bodies and notifies every observer.
func (p *Publisher) Publish(now time.Time, bodies dynamo.Bodies) {
	p.mu.Lock()
	p.last = now
	p.snapshot = bodies.Clone()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, o := range observers {
		o.OnSnapshot(bodies.Clone())
	}
}

// Snapshot returns a copy of the last published set, or nil before the first.
func (p *Publisher) Snapshot() dynamo.Bodies {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Clone()
}
