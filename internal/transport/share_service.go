package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ShareServiceServer is implemented by a computing node to receive one
// data owner's table shares.
type ShareServiceServer interface {
	SendRows(context.Context, *ShareRowsRequest) (*ShareRowsResponse, error)
}

// UnimplementedShareServiceServer can be embedded to satisfy
// ShareServiceServer for methods a particular node doesn't need to
// override.
type UnimplementedShareServiceServer struct{}

func (UnimplementedShareServiceServer) SendRows(context.Context, *ShareRowsRequest) (*ShareRowsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendRows not implemented")
}

// RegisterShareServiceServer registers srv with s.
func RegisterShareServiceServer(s grpc.ServiceRegistrar, srv ShareServiceServer) {
	s.RegisterService(&shareServiceDesc, srv)
}

func shareServiceSendRowsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ShareRowsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ShareServiceServer).SendRows(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/fesca.transport.ShareService/SendRows"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ShareServiceServer).SendRows(ctx, req.(*ShareRowsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var shareServiceDesc = grpc.ServiceDesc{
	ServiceName: "fesca.transport.ShareService",
	HandlerType: (*ShareServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendRows", Handler: shareServiceSendRowsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fesca/transport/share.proto",
}

// ShareServiceClient is the client side of ShareServiceServer.
type ShareServiceClient interface {
	SendRows(ctx context.Context, in *ShareRowsRequest, opts ...grpc.CallOption) (*ShareRowsResponse, error)
}

type shareServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewShareServiceClient wraps cc. Every call is forced onto the JSON
// codec registered in codec.go.
func NewShareServiceClient(cc grpc.ClientConnInterface) ShareServiceClient {
	return &shareServiceClient{cc: cc}
}

func (c *shareServiceClient) SendRows(ctx context.Context, in *ShareRowsRequest, opts ...grpc.CallOption) (*ShareRowsResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	out := new(ShareRowsResponse)
	if err := c.cc.Invoke(ctx, "/fesca.transport.ShareService/SendRows", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
