package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "blockfall.v1.Sessions"

// SessionsServer is the server API for the blockfall.v1.Sessions service.
// Messages are protobuf well-known types so no generated code is needed.
type SessionsServer interface {
	Create(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Command(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Snapshot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
	Close(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

// Register adds srv to the gRPC server s.
func Register(s grpc.ServiceRegistrar, srv SessionsServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SessionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Create",
			Handler:    unaryHandler("Create", newEmpty, SessionsServer.Create),
		},
		{
			MethodName: "Command",
			Handler:    unaryHandler("Command", newStruct, SessionsServer.Command),
		},
		{
			MethodName: "Snapshot",
			Handler:    unaryHandler("Snapshot", newString, SessionsServer.Snapshot),
		},
		{
			MethodName: "Close",
			Handler:    unaryHandler("Close", newString, SessionsServer.Close),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "blockfall/v1/sessions.proto",
}

func fullMethod(method string) string { return "/" + serviceName + "/" + method }

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

func newStruct() *structpb.Struct { return new(structpb.Struct) }

func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

// unaryHandler builds the grpc.MethodHandler generated code would have
// written for method.
func unaryHandler[Req proto.Message, Res any](
	method string,
	newReq func() Req,
	call func(SessionsServer, context.Context, Req) (Res, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SessionsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SessionsServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SessionsServer).Watch(in, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}
