package server

import "sync"

// sessionGuard serializes access per session at the HTTP boundary. The
// aggregator already locks per session, but rejecting overlapping requests
// up front keeps a slow remote extraction from queueing turns whose order
// the client cannot predict.
type sessionGuard struct {
	mu     sync.Mutex
	active map[string]bool
}

func newSessionGuard() *sessionGuard {
	return &sessionGuard{active: make(map[string]bool)}
}

// acquire marks the session busy. Returns false if a request for the same
// session is already in flight.
func (g *sessionGuard) acquire(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active[sessionID] {
		return false
	}
	g.active[sessionID] = true
	return true
}

// release marks the session idle again.
func (g *sessionGuard) release(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.active, sessionID)
}
