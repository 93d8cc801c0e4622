// Package corand implements spec.md §4.3: the correlated-randomness
// generator supplying the per-AND-gate triple (alpha, beta, gamma) with
// alpha^beta^gamma = 0, one component privately delivered per party (P1
// alpha, P2 beta, P3 gamma). Two variants share the Generator interface: an
// information-theoretic one that spends a ring round per triple, and a
// computational one that spends none after setup.
package corand

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// Generator issues this party's component of the triple identified by id.
// id is never reused across gates within one circuit evaluation; the
// compiler assigns id = gate_index and the evaluator passes it straight
// through (spec.md §4.3).
type Generator interface {
	Next(ctx context.Context, id uint64) (byte, error)
}

// FullTriple is the three-component view used only by tests and by the
// commodity-style local demo harness (internal/partyrunner), which has
// visibility into all three parties' state at once. Production code never
// constructs one: each party sees only its own Component via Generator.
type FullTriple struct {
	Alpha, Beta, Gamma byte
}

// Valid reports whether the triple satisfies alpha^beta^gamma = 0.
func (t FullTriple) Valid() bool {
	return (t.Alpha ^ t.Beta ^ t.Gamma) == 0
}

// --- Information-theoretic variant ---------------------------------------

// ITGenerator implements the one-triple-per-round variant: each party draws
// a fresh rho, sends it to its ring successor, and combines its own rho with
// the one received from its predecessor.
type ITGenerator struct {
	topo      ring.Topology
	transport ring.Transport
	rnd       io.Reader
}

// NewITGenerator constructs a generator for the party described by topo,
// communicating over transport and drawing rho from rnd.
func NewITGenerator(topo ring.Topology, transport ring.Transport, rnd io.Reader) *ITGenerator {
	return &ITGenerator{topo: topo, transport: transport, rnd: rnd}
}

func (g *ITGenerator) Next(ctx context.Context, id uint64) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(g.rnd, buf[:]); err != nil {
		return 0, fescaerr.Wrap(fescaerr.ProtocolError, "rho randomness", err)
	}
	rho := buf[0] & 1
	if err := g.transport.SendNext(ctx, []byte{rho}); err != nil {
		return 0, fescaerr.Wrap(fescaerr.TransportError, "send rho", err)
	}
	prev, err := g.transport.RecvPrev(ctx)
	if err != nil {
		return 0, fescaerr.Wrap(fescaerr.TransportError, "recv rho", err)
	}
	if len(prev) != 1 {
		return 0, fescaerr.New(fescaerr.ProtocolError, "rho message of wrong size")
	}
	return (prev[0] & 1) ^ rho, nil
}

// --- Computational (PRF-keyed) variant ------------------------------------

// KeyTriple is the setup-time key material: each party ends up knowing
// exactly two of the three keys, its own and its ring successor's (spec.md
// §4.3: "Pi draws k_i and gives it to P_{i-1}").
type KeyTriple [3][32]byte

// GenerateKeyTriple draws three fresh 256-bit keys from rnd, one per party.
func GenerateKeyTriple(rnd io.Reader) (KeyTriple, error) {
	var kt KeyTriple
	for i := range kt {
		if _, err := io.ReadFull(rnd, kt[i][:]); err != nil {
			return KeyTriple{}, fescaerr.Wrap(fescaerr.ProtocolError, "PRF key setup", err)
		}
	}
	return kt, nil
}

// PRFGenerator implements the computational variant: no per-triple
// communication, pure evaluation of a keyed hash on the party's own key and
// its successor's key.
type PRFGenerator struct {
	ownKey  [32]byte
	nextKey [32]byte
	salt    uint64
}

// NewPRFGenerator constructs a generator for the party at topo.Self, given
// the full key triple from setup and a circuit-wide salt mixed into every id
// to keep triples from one evaluation independent of another that reuses
// gate indices.
func NewPRFGenerator(topo ring.Topology, keys KeyTriple, salt uint64) *PRFGenerator {
	return &PRFGenerator{
		ownKey:  keys[topo.Self-1],
		nextKey: keys[topo.Next-1],
		salt:    salt,
	}
}

func (g *PRFGenerator) Next(_ context.Context, id uint64) (byte, error) {
	return prfBit(g.ownKey, g.salt, id) ^ prfBit(g.nextKey, g.salt, id), nil
}

// prfBit evaluates F_k(id) = first bit of SHA-256(k || salt || id).
func prfBit(key [32]byte, salt, id uint64) byte {
	h := sha256.New()
	h.Write(key[:])
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], salt)
	binary.LittleEndian.PutUint64(buf[8:], id)
	h.Write(buf[:])
	sum := h.Sum(nil)
	return sum[0] & 1
}

// ComputeFullTriple recomputes the whole (alpha, beta, gamma) triple for a
// given id from a key triple and salt. Used only by tests: it requires
// knowledge of all three keys, which no single party has in production.
func ComputeFullTriple(keys KeyTriple, salt, id uint64) FullTriple {
	f := func(k [32]byte) byte { return prfBit(k, salt, id) }
	return FullTriple{
		Alpha: f(keys[sharecodec.P1-1]) ^ f(keys[sharecodec.P2-1]),
		Beta:  f(keys[sharecodec.P2-1]) ^ f(keys[sharecodec.P3-1]),
		Gamma: f(keys[sharecodec.P3-1]) ^ f(keys[sharecodec.P1-1]),
	}
}
