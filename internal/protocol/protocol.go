// Package protocol tracks in-flight query evaluations: each query gets a
// fresh identifier and its own wire->share state, so that two queries
// running concurrently against the same computing node never read or
// write each other's wires (spec.md §9's concurrency design note).
package protocol

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fesca-project/fesca/internal/circuit"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/gate"
)

// QueryID identifies one query evaluation across all three computing
// nodes; every party must agree on it out of band. The data-analyst
// command mints one per compiled query and logs it; RhoRequest and
// VerifyCorrelationRequest carry it between nodes, but no message sends
// it from the analyst to the computing nodes.
type QueryID string

// NewQueryID mints a fresh, globally unique query id.
func NewQueryID() QueryID {
	return QueryID(uuid.NewString())
}

// Session holds one query's mutable evaluation state: the circuit being
// run and the wire->share map accumulated so far.
type Session struct {
	Circuit *circuit.Circuit
	Wires   map[circuit.Wire]gate.Share
}

// Registry tracks the Sessions for queries currently in flight on one
// computing node. It is safe for concurrent use by the RPC handlers in
// internal/transport.
type Registry struct {
	mu       sync.Mutex
	sessions map[QueryID]*Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[QueryID]*Session)}
}

// Open registers a new session under id, rejecting a duplicate id as a
// ProtocolError (a query id must be unique for the lifetime of its
// evaluation).
func (r *Registry) Open(id QueryID, c *circuit.Circuit) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[id]; exists {
		return nil, fescaerr.New(fescaerr.ProtocolError, "duplicate query id "+string(id))
	}
	s := &Session{Circuit: c, Wires: make(map[circuit.Wire]gate.Share)}
	r.sessions[id] = s
	return s, nil
}

// Get returns the session for id, or a ProtocolError if none is open.
func (r *Registry) Get(id QueryID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fescaerr.New(fescaerr.ProtocolError, "no such query "+string(id))
	}
	return s, nil
}

// Close discards a session once its result has been returned and its
// rounds can be recycled; closing an unknown id is a no-op since cleanup
// may race a concurrent timeout.
func (r *Registry) Close(id QueryID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
