package grpc

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
)

// Dashboard is the read side the RPCs serve from.
type Dashboard interface {
	Fleet() fleet.Update
	Stats() models.Stats
	Hospital(id string) (models.Hospital, bool)
}

type Server struct {
	dashboard   Dashboard
	broadcaster *fleet.Broadcaster
	grpcServer  *grpc.Server
}

func NewServer(dashboard Dashboard, broadcaster *fleet.Broadcaster) *Server {
	s := &Server{
		dashboard:   dashboard,
		broadcaster: broadcaster,
		grpcServer:  grpc.NewServer(),
	}
	RegisterFleetServiceServer(s.grpcServer, s)
	return s
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	slog.Info("gRPC server listening", "addr", addr)
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop waits for open streams; close the broadcaster first so they end.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

func (s *Server) GetFleet(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	msg, err := toStruct(s.dashboard.Fleet())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode fleet: %v", err)
	}
	return msg, nil
}

func (s *Server) GetStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	msg, err := toStruct(s.dashboard.Stats())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode stats: %v", err)
	}
	return msg, nil
}

func (s *Server) GetHospital(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := req.GetFields()["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	h, ok := s.dashboard.Hospital(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "hospital not found: %s", id)
	}

	msg, err := toStruct(h)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode hospital: %v", err)
	}
	return msg, nil
}

// StreamFleet sends the current fleet, then every applied snapshot.
func (s *Server) StreamFleet(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	id, ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(id)

	slog.Info("client subscribed to fleet stream", "subscriber_id", id)

	if err := s.send(stream, s.dashboard.Fleet()); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			slog.Info("client disconnected from fleet stream", "subscriber_id", id)
			return nil
		case u, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.send(stream, u); err != nil {
				slog.Error("failed to send fleet update to stream", "error", err, "subscriber_id", id)
				return err
			}
		}
	}
}

func (s *Server) send(stream grpc.ServerStreamingServer[structpb.Struct], u fleet.Update) error {
	msg, err := toStruct(u)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to encode fleet: %v", err)
	}
	return stream.Send(msg)
}
