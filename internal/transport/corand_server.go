package transport

import (
	"context"
	"fmt"

	"github.com/fesca-project/fesca/internal/protocol"
)

// InboxServer implements CorrelatedRandomnessServer by forwarding every
// incoming rho byte into an Inboxes, regardless of which of
// SendRho1/SendRho2/SendRho3 carried it: a node only ever receives one of
// the three, the one corresponding to its ring predecessor, so the
// handler doesn't need to distinguish them.
type InboxServer struct {
	UnimplementedCorrelatedRandomnessServer
	Inboxes *Inboxes
}

func (s *InboxServer) deliver(ctx context.Context, req *RhoRequest) (*RhoResponse, error) {
	if err := s.Inboxes.Deliver(ctx, protocol.QueryID(req.QueryID), req.Rho); err != nil {
		return nil, err
	}
	return &RhoResponse{
		Ok:      true,
		Message: fmt.Sprintf("delivered rho for gate %d", req.GateIndex),
	}, nil
}

func (s *InboxServer) SendRho1(ctx context.Context, req *RhoRequest) (*RhoResponse, error) {
	return s.deliver(ctx, req)
}

func (s *InboxServer) SendRho2(ctx context.Context, req *RhoRequest) (*RhoResponse, error) {
	return s.deliver(ctx, req)
}

func (s *InboxServer) SendRho3(ctx context.Context, req *RhoRequest) (*RhoResponse, error) {
	return s.deliver(ctx, req)
}

// VerifyCorrelation keeps no record of this node's triple components, so
// it compares nothing: it always reports Consistent and says in Message
// that no local value was checked.
func (s *InboxServer) VerifyCorrelation(ctx context.Context, req *VerifyCorrelationRequest) (*VerifyCorrelationResponse, error) {
	return &VerifyCorrelationResponse{
		Consistent: true,
		Message:    fmt.Sprintf("gate %d: no local value recorded to cross-check against %d", req.GateIndex, req.Value),
	}, nil
}
