package transport

import (
	"context"

	"github.com/fesca-project/fesca/internal/fescaerr"
	"github.com/fesca-project/fesca/internal/protocol"
	"github.com/fesca-project/fesca/internal/ring"
	"github.com/fesca-project/fesca/internal/sharecodec"
)

// GateTransport is a ring.Transport backed by CorrelatedRandomnessClient:
// a single-byte ring message - whether it carries an AND-gate's ri or an
// IT-generator's rho - travels over the same SendRho1/SendRho2/SendRho3
// RPC, selected by which directed ring edge self sits on, per
// original_source/fesca/computing_node/src/grpc.rs, which uses one such
// RPC generically for every ring exchange rather than one per use.
type GateTransport struct {
	QueryID string
	Self    sharecodec.PartyID
	Client  CorrelatedRandomnessClient
	// Inbox receives bytes delivered by this node's own server handler for
	// messages arriving from its ring predecessor.
	Inbox <-chan byte
	gateIdx uint64
}

// NewGateTransport builds a transport for one query's ring exchanges.
func NewGateTransport(queryID string, self sharecodec.PartyID, client CorrelatedRandomnessClient, inbox <-chan byte) *GateTransport {
	return &GateTransport{QueryID: queryID, Self: self, Client: client, Inbox: inbox}
}

var _ ring.Transport = (*GateTransport)(nil)

func (t *GateTransport) SendNext(ctx context.Context, data []byte) error {
	if len(data) != 1 {
		return fescaerr.New(fescaerr.ProtocolError, "ring message must be exactly one byte")
	}
	req := &RhoRequest{QueryID: t.QueryID, GateIndex: t.gateIdx, Rho: data[0]}
	t.gateIdx++
	var err error
	switch t.Self {
	case sharecodec.P1:
		_, err = t.Client.SendRho1(ctx, req)
	case sharecodec.P2:
		_, err = t.Client.SendRho2(ctx, req)
	case sharecodec.P3:
		_, err = t.Client.SendRho3(ctx, req)
	default:
		return fescaerr.New(fescaerr.ProtocolError, "unknown party id")
	}
	if err != nil {
		return fescaerr.Wrap(fescaerr.TransportError, "SendNext", err)
	}
	return nil
}

func (t *GateTransport) RecvPrev(ctx context.Context) ([]byte, error) {
	select {
	case b := <-t.Inbox:
		return []byte{b}, nil
	case <-ctx.Done():
		return nil, fescaerr.Wrap(fescaerr.TransportError, "RecvPrev", ctx.Err())
	}
}

// Inboxes fans incoming SendRho{1,2,3} RPCs, keyed by query id, into the
// per-query channel a GateTransport reads from. One computing node holds
// one Inboxes per ring predecessor edge; which of SendRho1/2/3 its server
// implementation routes into it depends only on which predecessor it is
// wired to, since exactly one of the three RPCs ever arrives from a given
// predecessor.
type Inboxes struct {
	reg   *protocol.Registry
	chans map[protocol.QueryID]chan byte
}

// NewInboxes returns an empty Inboxes keyed against reg's open queries.
func NewInboxes(reg *protocol.Registry) *Inboxes {
	return &Inboxes{reg: reg, chans: make(map[protocol.QueryID]chan byte)}
}

// Open allocates the channel for a query's incoming ring messages; must be
// called before that query's first SendRho arrives.
func (ib *Inboxes) Open(id protocol.QueryID) <-chan byte {
	ch := make(chan byte, 256)
	ib.chans[id] = ch
	return ch
}

// Deliver pushes one byte to the named query's channel, implementing the
// server side of SendRho1/SendRho2/SendRho3.
func (ib *Inboxes) Deliver(ctx context.Context, id protocol.QueryID, b byte) error {
	ch, ok := ib.chans[id]
	if !ok {
		return fescaerr.New(fescaerr.ProtocolError, "no open inbox for query "+string(id))
	}
	select {
	case ch <- b:
		return nil
	case <-ctx.Done():
		return fescaerr.Wrap(fescaerr.TransportError, "Deliver", ctx.Err())
	}
}

// Close releases the channel for a finished query.
func (ib *Inboxes) Close(id protocol.QueryID) {
	delete(ib.chans, id)
}
