package alerting

import (
	"sync"
	"time"
)

type gateKey struct {
	vehicle   string
	rule      string
	component string
}

// gate tracks since when each rule condition has held and when it last
// fired.
type gate struct {
	now       func() time.Time
	since     map[gateKey]time.Time
	lastFired map[gateKey]time.Time
	mu        sync.Mutex
}

func newGate(now func() time.Time) *gate {
	return &gate{
		now:       now,
		since:     make(map[gateKey]time.Time),
		lastFired: make(map[gateKey]time.Time),
	}
}

// admit records the latest evaluation for key and reports whether an alert
// should be emitted now.
func (g *gate) admit(key gateKey, matched bool, holdFor, cooldown time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !matched {
		delete(g.since, key)
		return false
	}

	now := g.now()
	start, ok := g.since[key]
	if !ok {
		start = now
		g.since[key] = now
	}
	if now.Sub(start) < holdFor {
		return false
	}

	if cooldown > 0 {
		if last, ok := g.lastFired[key]; ok && now.Sub(last) < cooldown {
			return false
		}
		g.lastFired[key] = now
	}
	return true
}

func (g *gate) forget(vehicleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for k := range g.since {
		if k.vehicle == vehicleID {
			delete(g.since, k)
		}
	}
	for k := range g.lastFired {
		if k.vehicle == vehicleID {
			delete(g.lastFired, k)
		}
	}
}
