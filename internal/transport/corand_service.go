package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CorrelatedRandomnessServer is implemented by a computing node to
// exchange the one-round rho values its ring neighbours send it during
// AND-gate evaluation (spec.md §4.3/§4.4), plus an out-of-band
// consistency check. Three distinct methods (one per directed ring edge)
// mirror original_source/fesca/computing_node/src/grpc.rs rather than a
// single parameterised RPC, since each edge is fielded by a different
// long-lived stream in the original and keeping them separate here
// preserves that shape.
type CorrelatedRandomnessServer interface {
	SendRho1(context.Context, *RhoRequest) (*RhoResponse, error)
	SendRho2(context.Context, *RhoRequest) (*RhoResponse, error)
	SendRho3(context.Context, *RhoRequest) (*RhoResponse, error)
	VerifyCorrelation(context.Context, *VerifyCorrelationRequest) (*VerifyCorrelationResponse, error)
}

// UnimplementedCorrelatedRandomnessServer can be embedded to satisfy
// CorrelatedRandomnessServer for methods a particular node doesn't need
// to override.
type UnimplementedCorrelatedRandomnessServer struct{}

func (UnimplementedCorrelatedRandomnessServer) SendRho1(context.Context, *RhoRequest) (*RhoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendRho1 not implemented")
}

func (UnimplementedCorrelatedRandomnessServer) SendRho2(context.Context, *RhoRequest) (*RhoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendRho2 not implemented")
}

func (UnimplementedCorrelatedRandomnessServer) SendRho3(context.Context, *RhoRequest) (*RhoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendRho3 not implemented")
}

func (UnimplementedCorrelatedRandomnessServer) VerifyCorrelation(context.Context, *VerifyCorrelationRequest) (*VerifyCorrelationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyCorrelation not implemented")
}

// RegisterCorrelatedRandomnessServer registers srv with s.
func RegisterCorrelatedRandomnessServer(s grpc.ServiceRegistrar, srv CorrelatedRandomnessServer) {
	s.RegisterService(&corandServiceDesc, srv)
}

func corandRhoHandler(method func(CorrelatedRandomnessServer, context.Context, *RhoRequest) (*RhoResponse, error), fullMethod string) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(RhoRequest)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(CorrelatedRandomnessServer)
		if interceptor == nil {
			return method(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(s, ctx, req.(*RhoRequest))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func corandVerifyCorrelationHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(VerifyCorrelationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(CorrelatedRandomnessServer)
	if interceptor == nil {
		return s.VerifyCorrelation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/fesca.transport.CorrelatedRandomnessService/VerifyCorrelation"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.VerifyCorrelation(ctx, req.(*VerifyCorrelationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var corandServiceDesc = grpc.ServiceDesc{
	ServiceName: "fesca.transport.CorrelatedRandomnessService",
	HandlerType: (*CorrelatedRandomnessServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SendRho1",
			Handler: corandRhoHandler(func(s CorrelatedRandomnessServer, ctx context.Context, r *RhoRequest) (*RhoResponse, error) {
				return s.SendRho1(ctx, r)
			}, "/fesca.transport.CorrelatedRandomnessService/SendRho1"),
		},
		{
			MethodName: "SendRho2",
			Handler: corandRhoHandler(func(s CorrelatedRandomnessServer, ctx context.Context, r *RhoRequest) (*RhoResponse, error) {
				return s.SendRho2(ctx, r)
			}, "/fesca.transport.CorrelatedRandomnessService/SendRho2"),
		},
		{
			MethodName: "SendRho3",
			Handler: corandRhoHandler(func(s CorrelatedRandomnessServer, ctx context.Context, r *RhoRequest) (*RhoResponse, error) {
				return s.SendRho3(ctx, r)
			}, "/fesca.transport.CorrelatedRandomnessService/SendRho3"),
		},
		{MethodName: "VerifyCorrelation", Handler: corandVerifyCorrelationHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fesca/transport/corand.proto",
}

// CorrelatedRandomnessClient is the client side of CorrelatedRandomnessServer.
type CorrelatedRandomnessClient interface {
	SendRho1(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error)
	SendRho2(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error)
	SendRho3(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error)
	VerifyCorrelation(ctx context.Context, in *VerifyCorrelationRequest, opts ...grpc.CallOption) (*VerifyCorrelationResponse, error)
}

type corandClient struct {
	cc grpc.ClientConnInterface
}

// NewCorrelatedRandomnessClient wraps cc.
func NewCorrelatedRandomnessClient(cc grpc.ClientConnInterface) CorrelatedRandomnessClient {
	return &corandClient{cc: cc}
}

func (c *corandClient) sendRho(ctx context.Context, method string, in *RhoRequest, opts []grpc.CallOption) (*RhoResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	out := new(RhoResponse)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *corandClient) SendRho1(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error) {
	return c.sendRho(ctx, "/fesca.transport.CorrelatedRandomnessService/SendRho1", in, opts)
}

func (c *corandClient) SendRho2(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error) {
	return c.sendRho(ctx, "/fesca.transport.CorrelatedRandomnessService/SendRho2", in, opts)
}

func (c *corandClient) SendRho3(ctx context.Context, in *RhoRequest, opts ...grpc.CallOption) (*RhoResponse, error) {
	return c.sendRho(ctx, "/fesca.transport.CorrelatedRandomnessService/SendRho3", in, opts)
}

func (c *corandClient) VerifyCorrelation(ctx context.Context, in *VerifyCorrelationRequest, opts ...grpc.CallOption) (*VerifyCorrelationResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	out := new(VerifyCorrelationResponse)
	if err := c.cc.Invoke(ctx, "/fesca.transport.CorrelatedRandomnessService/VerifyCorrelation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
