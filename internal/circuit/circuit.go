// Package circuit implements spec.md §4.5: the wire arena, gate sequence,
// and evaluator that drives a Boolean circuit forward one party at a time.
// The gate kinds form a small closed tagged variant, matched exhaustively
// rather than modelled as an interface hierarchy (spec.md §9).
package circuit

import (
	"context"

	"github.com/fesca-project/fesca/internal/corand"
	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/gate"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// Wire is a position in the per-evaluation wire->share map.
type Wire int

// Kind is the closed set of gate kinds.
type Kind int

const (
	Input Kind = iota
	Const0
	Const1
	Xor
	And
	Not
)

// Gate is a tagged record: kind, input wire references, and the output wire
// it writes. In1/In2 are unused where the kind doesn't need them.
type Gate struct {
	Kind Kind
	In1  Wire
	In2  Wire
	Out  Wire
}

// Circuit is (input_count, output_wires, gate_sequence, declared wire
// arity). It is an immutable value once built: no mutation after
// construction (spec.md §3).
type Circuit struct {
	InputCount    int
	WireCount     int
	Gates         []Gate
	Outputs       []Wire
	DesignatedNOT sharecodec.PartyID // fixed to P1 unless a caller overrides at build time
}

// Builder incrementally constructs a Circuit, allocating wire ids
// monotonically (grounded on original_source's CircuitBuilder, extended
// with a first-class Not gate per spec.md §4.4).
type Builder struct {
	gates         []Gate
	nextWire      Wire
	inputCount    int
	designatedNOT sharecodec.PartyID
}

// NewBuilder returns a Builder with P1 as the designated NOT-flipping party,
// the default spec.md §4.4 fixes when a caller expresses no preference.
func NewBuilder() *Builder {
	return &Builder{designatedNOT: sharecodec.P1}
}

// SetDesignatedNOT overrides the NOT-flipping party. Must be called before
// any NOT gate is added; every NOT gate in a circuit must agree.
func (b *Builder) SetDesignatedNOT(p sharecodec.PartyID) { b.designatedNOT = p }

func (b *Builder) alloc(k Kind, in1, in2 Wire) Wire {
	w := b.nextWire
	b.nextWire++
	b.gates = append(b.gates, Gate{Kind: k, In1: in1, In2: in2, Out: w})
	return w
}

// Input allocates a fresh input wire. Inputs must be allocated before any
// other gate references them; the evaluator populates them from the
// party's input-wire->share map at evaluation start.
func (b *Builder) Input() Wire {
	w := b.alloc(Input, 0, 0)
	b.inputCount++
	return w
}

// Const0 / Const1 allocate a wire tied to a publicly known constant.
func (b *Builder) Const0() Wire { return b.alloc(Const0, 0, 0) }
func (b *Builder) Const1() Wire { return b.alloc(Const1, 0, 0) }

// XOR, AND, NOT allocate the corresponding gate and return its output wire.
func (b *Builder) XOR(x, y Wire) Wire { return b.alloc(Xor, x, y) }
func (b *Builder) AND(x, y Wire) Wire { return b.alloc(And, x, y) }
func (b *Builder) NOT(x Wire) Wire    { return b.alloc(Not, x, 0) }

// Finish finalises the circuit with the given output wires, in order.
func (b *Builder) Finish(outputs []Wire) *Circuit {
	return &Circuit{
		InputCount:    b.inputCount,
		WireCount:     int(b.nextWire),
		Gates:         b.gates,
		Outputs:       outputs,
		DesignatedNOT: b.designatedNOT,
	}
}

// Result is the outcome of evaluating a Circuit for one party: the ordered
// shares of the declared output wires plus the number of ring rounds
// consumed (one per AND gate; XOR/NOT never increment it).
type Result struct {
	Outputs []gate.Share
	Rounds  int
}

// Evaluate drives c forward for the party identified by self, using
// transport for AND-gate ring rounds and gen for per-AND-gate correlated
// triples. inputs must supply a share for every wire c.Input allocated;
// a missing input wire, an out-of-range gate reference, or an attempt to
// write an already-populated wire is a fatal ProtocolError (spec.md §4.5).
func Evaluate(ctx context.Context, c *Circuit, self sharecodec.PartyID, transport ring.Transport, gen corand.Generator, inputs map[Wire]gate.Share) (Result, error) {
	wires := make(map[Wire]gate.Share, c.WireCount)
	for w, s := range inputs {
		wires[w] = s
	}

	rounds := 0
	for idx, g := range c.Gates {
		if _, exists := wires[g.Out]; exists && g.Kind != Input {
			return Result{}, fescaerr.New(fescaerr.ProtocolError, "output wire already set")
		}
		switch g.Kind {
		case Input:
			if _, ok := wires[g.Out]; !ok {
				return Result{}, fescaerr.New(fescaerr.ProtocolError, "missing input wire")
			}
		case Const0, Const1:
			wires[g.Out] = constShare(self, g.Kind == Const1)
		case Xor:
			x, y, err := resolveTwo(wires, g)
			if err != nil {
				return Result{}, err
			}
			wires[g.Out] = gate.XOR(x, y)
		case Not:
			x, ok := wires[g.In1]
			if !ok {
				return Result{}, fescaerr.New(fescaerr.ProtocolError, "missing input wire")
			}
			wires[g.Out] = gate.NOT(byte(self), byte(c.DesignatedNOT), x)
		case And:
			x, y, err := resolveTwo(wires, g)
			if err != nil {
				return Result{}, err
			}
			triple, err := gen.Next(ctx, uint64(idx))
			if err != nil {
				return Result{}, fescaerr.Wrap(fescaerr.ProtocolError, "missing correlated triple", err)
			}
			out, err := gate.AND(ctx, transport, x, y, triple)
			if err != nil {
				return Result{}, err
			}
			wires[g.Out] = out
			rounds++
		default:
			return Result{}, fescaerr.New(fescaerr.ProtocolError, "unknown gate kind")
		}
	}

	outputs := make([]gate.Share, len(c.Outputs))
	for i, w := range c.Outputs {
		s, ok := wires[w]
		if !ok {
			return Result{}, fescaerr.New(fescaerr.ProtocolError, "missing output wire")
		}
		outputs[i] = s
	}
	return Result{Outputs: outputs, Rounds: rounds}, nil
}

func resolveTwo(wires map[Wire]gate.Share, g Gate) (gate.Share, gate.Share, error) {
	x, ok := wires[g.In1]
	if !ok {
		return gate.Share{}, gate.Share{}, fescaerr.New(fescaerr.ProtocolError, "missing input wire")
	}
	y, ok := wires[g.In2]
	if !ok {
		return gate.Share{}, gate.Share{}, fescaerr.New(fescaerr.ProtocolError, "missing input wire")
	}
	return x, y, nil
}

// constShare is the deterministic replicated encoding of a publicly known
// bit v: s1=v, s2=0, s3=0 (XOR-reconstructs to v, needs no randomness, and
// is reconstructible consistently by every pair of parties).
func constShare(self sharecodec.PartyID, v bool) gate.Share {
	var bit byte
	if v {
		bit = 1
	}
	switch self {
	case sharecodec.P1:
		return gate.Share{Own: bit, Next: 0}
	case sharecodec.P2:
		return gate.Share{Own: 0, Next: 0}
	case sharecodec.P3:
		return gate.Share{Own: 0, Next: bit}
	default:
		return gate.Share{}
	}
}
