// Package ring models the logical cycle P1 -> P2 -> P3 -> P1 that carries
// every point-to-point message in fesca (spec.md §9: "represent the
// neighbourhood as (self_index, prev_index, next_index) integers plus two
// transport channels owned independently", never as pointer cycles).
package ring

import (
	"context"

	"github.com/fesca-project/fesca/internal/sharecodec"
)

// Topology is the three plain integers (as PartyIDs) a party needs to know
// about its place in the ring. It owns no channels itself.
type Topology struct {
	Self sharecodec.PartyID
	Prev sharecodec.PartyID
	Next sharecodec.PartyID
}

// NewTopology derives Prev/Next from self on the fixed 3-cycle P1->P2->P3->P1.
func NewTopology(self sharecodec.PartyID) Topology {
	return Topology{Self: self, Prev: prevOf(self), Next: nextOf(self)}
}

func nextOf(p sharecodec.PartyID) sharecodec.PartyID { return sharecodec.PartyID(int(p)%3 + 1) }
func prevOf(p sharecodec.PartyID) sharecodec.PartyID { return sharecodec.PartyID((int(p)+1)%3 + 1) }

// Transport is a reliable, in-order point-to-point channel between ordered
// party pairs (spec.md §1: "treated abstractly"). Out-of-order delivery
// corrupts the wire map irrecoverably (spec.md §5), so every implementation
// must preserve FIFO order along each of the three directed ring edges.
type Transport interface {
	// SendNext delivers data to this party's ring successor.
	SendNext(ctx context.Context, data []byte) error
	// RecvPrev blocks until a message from this party's ring predecessor is
	// available and returns it. A size mismatch against what the caller
	// expected is the caller's responsibility to detect and report as a
	// ProtocolError; Transport itself only guarantees FIFO delivery.
	RecvPrev(ctx context.Context) ([]byte, error)
}
