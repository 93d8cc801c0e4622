// Package partyrunner drives three parties through one circuit evaluation
// in a single process, using in-memory channels in place of real network
// transport. Tests use it to simulate all three parties side by side
// instead of dialing actual peers; the computing-node command does not
// use it.
package partyrunner

import (
	"context"

	"github.com/fesca-project/fesca/internal/circuit"
	"github.com/fesca-project/fesca/internal/corand"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/gate"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
	"golang.org/x/sync/errgroup"
)

// edge is the single-writer, single-reader channel carrying one party's
// ring messages to its successor. Buffered generously so neither side
// blocks waiting for the other to start draining.
type edge chan []byte

func newEdge() edge { return make(edge, 256) }

// chanTransport implements ring.Transport over two directed channels: out
// carries this party's messages to its successor, in carries its
// predecessor's messages to it.
type chanTransport struct {
	out edge
	in  edge
}

func (t *chanTransport) SendNext(ctx context.Context, data []byte) error {
	select {
	case t.out <- data:
		return nil
	case <-ctx.Done():
		return fescaerr.Wrap(fescaerr.TransportError, "SendNext", ctx.Err())
	}
}

func (t *chanTransport) RecvPrev(ctx context.Context) ([]byte, error) {
	select {
	case data := <-t.in:
		return data, nil
	case <-ctx.Done():
		return nil, fescaerr.Wrap(fescaerr.TransportError, "RecvPrev", ctx.Err())
	}
}

// Harness wires three in-memory transports into the P1->P2->P3->P1 ring.
type Harness struct {
	Transports map[sharecodec.PartyID]ring.Transport
}

// NewHarness builds a fresh ring of three chanTransports.
func NewHarness() *Harness {
	e12, e23, e31 := newEdge(), newEdge(), newEdge()
	return &Harness{
		Transports: map[sharecodec.PartyID]ring.Transport{
			sharecodec.P1: &chanTransport{out: e12, in: e31},
			sharecodec.P2: &chanTransport{out: e23, in: e12},
			sharecodec.P3: &chanTransport{out: e31, in: e23},
		},
	}
}

// PartyInputs is one party's input-wire->share map for one evaluation.
type PartyInputs map[circuit.Wire]gate.Share

// Outcome pairs a party's evaluation result with any error it hit. Run
// does not return Outcomes: the first party error cancels the context the
// other parties evaluate under, and Run returns that error (a real
// deployment's transport.RecvPrev would simply block forever on a missing
// peer, which is why callers should always run evaluation under a bounded
// context).
type Outcome struct {
	Result circuit.Result
	Err    error
}

// Run evaluates c for all three parties concurrently over a fresh harness
// of its own, using the supplied per-party generator and inputs. It
// returns once every party's Evaluate call has returned: the three
// results, or the first error any party hit (which also cancels the
// context the other parties evaluate under).
func Run(ctx context.Context, c *circuit.Circuit, gens map[sharecodec.PartyID]corand.Generator, inputs map[sharecodec.PartyID]PartyInputs) (map[sharecodec.PartyID]circuit.Result, error) {
	h := NewHarness()
	parties := [3]sharecodec.PartyID{sharecodec.P1, sharecodec.P2, sharecodec.P3}
	var out [3]circuit.Result
	g, gctx := errgroup.WithContext(ctx)

	for i, p := range parties {
		i, p := i, p
		g.Go(func() error {
			res, err := circuit.Evaluate(gctx, c, p, h.Transports[p], gens[p], inputs[p])
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	results := make(map[sharecodec.PartyID]circuit.Result, 3)
	for i, p := range parties {
		results[p] = out[i]
	}
	return results, nil
}
