package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fondfolio.v1.PortfolioService"

// PortfolioServiceServer is the server API for the PortfolioService.
// Requests and responses are google.protobuf.Struct documents shaped like the
// HTTP API's JSON bodies.
type PortfolioServiceServer interface {
	GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddFund(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteDeposits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedPortfolioServiceServer can be embedded to have forward compatible implementations
type UnimplementedPortfolioServiceServer struct{}

func (UnimplementedPortfolioServiceServer) GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSummary not implemented")
}

func (UnimplementedPortfolioServiceServer) AddFund(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method AddFund not implemented")
}

func (UnimplementedPortfolioServiceServer) AddDeposits(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method AddDeposits not implemented")
}

func (UnimplementedPortfolioServiceServer) DeleteDeposits(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteDeposits not implemented")
}

// RegisterPortfolioServiceServer registers srv on s
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioServiceDesc, srv)
}

type unaryMethod func(srv PortfolioServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a typed method to grpc.MethodDesc's handler signature
func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortfolioServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PortfolioServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// PortfolioServiceDesc is the grpc.ServiceDesc for the PortfolioService
var PortfolioServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetSummary", PortfolioServiceServer.GetSummary),
		unaryHandler("AddFund", PortfolioServiceServer.AddFund),
		unaryHandler("AddDeposits", PortfolioServiceServer.AddDeposits),
		unaryHandler("DeleteDeposits", PortfolioServiceServer.DeleteDeposits),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fondfolio/v1/portfolio.proto",
}

// PortfolioServiceClient is the client API for the PortfolioService
type PortfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient creates a client on cc
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) *PortfolioServiceClient {
	return &PortfolioServiceClient{cc: cc}
}

func (c *PortfolioServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PortfolioServiceClient) GetSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSummary", in, opts...)
}

func (c *PortfolioServiceClient) AddFund(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "AddFund", in, opts...)
}

func (c *PortfolioServiceClient) AddDeposits(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "AddDeposits", in, opts...)
}

func (c *PortfolioServiceClient) DeleteDeposits(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteDeposits", in, opts...)
}
