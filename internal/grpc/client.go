package grpc

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) GetFleet(ctx context.Context) (fleet.Update, error) {
	var u fleet.Update
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getFleetMethod, &emptypb.Empty{}, out); err != nil {
		return u, err
	}
	err := fromStruct(out, &u)
	return u, err
}

func (c *Client) GetStats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStatsMethod, &emptypb.Empty{}, out); err != nil {
		return st, err
	}
	err := fromStruct(out, &st)
	return st, err
}

func (c *Client) GetHospital(ctx context.Context, id string) (models.Hospital, error) {
	var h models.Hospital
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return h, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getHospitalMethod, in, out); err != nil {
		return h, err
	}
	err = fromStruct(out, &h)
	return h, err
}

// StreamFleet calls fn for every update until the server ends the stream,
// ctx is cancelled, or fn returns an error.
func (c *Client) StreamFleet(ctx context.Context, fn func(fleet.Update) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.cc.NewStream(ctx, &FleetServiceDesc.Streams[0], streamFleetMethod)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var u fleet.Update
		if err := fromStruct(msg, &u); err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
	}
}
