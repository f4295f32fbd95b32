package physics

import (
	"sync"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

// AccelPool recycles per-step acceleration buffers so a running engine does
// not allocate one per frame.
type AccelPool struct {
	pool sync.Pool
}

func NewAccelPool() *AccelPool {
	return &AccelPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]dynamo.Vec2, 0, 8)
				return &buf
			},
		},
	}
}

// Get returns a zeroed buffer of length n.
func (p *AccelPool) Get(n int) *[]dynamo.Vec2 {
	buf := p.pool.Get().(*[]dynamo.Vec2)
	if cap(*buf) < n {
		*buf = make([]dynamo.Vec2, n)
		return buf
	}
	*buf = (*buf)[:n]
	clear(*buf)
	return buf
}

func (p *AccelPool) Put(buf *[]dynamo.Vec2) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}

var accelPool = NewAccelPool()
