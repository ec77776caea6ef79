// Package idgen hands out strictly increasing int64 identifiers.
package idgen

import (
	"sync/atomic"
	"time"
)

// Generator is a monotonic id source. It starts from the wall clock in
// milliseconds so ids stay recognisable as creation times, but never repeats
// and never goes below the configured floor.
type Generator struct {
	last atomic.Int64
}

// New returns a generator whose first id is greater than both floor and the
// current time in milliseconds.
func New(floor int64) *Generator {
	g := &Generator{}
	start := time.Now().UnixMilli()
	if start <= floor {
		start = floor + 1
	}
	g.last.Store(start - 1)
	return g
}

// Next returns the next id.
func (g *Generator) Next() int64 {
	for {
		prev := g.last.Load()
		next := prev + 1
		if now := time.Now().UnixMilli(); now > next {
			next = now
		}
		if g.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}
