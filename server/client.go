package server

import (
	"blockfall/tetris"
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a typed client for the blockfall.v1.Sessions service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Create starts a new session and returns its id.
func (c *Client) Create(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, fullMethod("Create"), &emptypb.Empty{}, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Command runs cmd on session id and returns the snapshot right after it.
func (c *Client) Command(ctx context.Context, id string, cmd tetris.Command, opts ...grpc.CallOption) (tetris.Snapshot, error) {
	in, err := structpb.NewStruct(map[string]any{"session_id": id, "command": string(cmd)})
	if err != nil {
		return tetris.Snapshot{}, fmt.Errorf("failed to build request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("Command"), in, out, opts...); err != nil {
		return tetris.Snapshot{}, err
	}
	return decodeSnapshot(out)
}

func (c *Client) Snapshot(ctx context.Context, id string, opts ...grpc.CallOption) (tetris.Snapshot, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("Snapshot"), wrapperspb.String(id), out, opts...); err != nil {
		return tetris.Snapshot{}, err
	}
	return decodeSnapshot(out)
}

func (c *Client) Close(ctx context.Context, id string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, fullMethod("Close"), wrapperspb.String(id), new(emptypb.Empty), opts...)
}

// WatchStream receives the snapshots of a watched session.
type WatchStream struct {
	stream grpc.ServerStreamingClient[structpb.Struct]
}

// Recv returns the next snapshot, or io.EOF once the session is over.
func (w *WatchStream) Recv() (tetris.Snapshot, error) {
	msg, err := w.stream.Recv()
	if err != nil {
		return tetris.Snapshot{}, err
	}
	return decodeSnapshot(msg)
}

func (c *Client) Watch(ctx context.Context, id string, opts ...grpc.CallOption) (*WatchStream, error) {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], fullMethod("Watch"), opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.SendMsg(wrapperspb.String(id)); err != nil {
		return nil, err
	}
	if err := x.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchStream{stream: x}, nil
}
