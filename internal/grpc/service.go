package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are carried as google.protobuf.Struct holding the same JSON shapes
// the HTTP API serves.
const (
	serviceName = "ambulance.v1.FleetService"

	getFleetMethod    = "/" + serviceName + "/GetFleet"
	getStatsMethod    = "/" + serviceName + "/GetStats"
	getHospitalMethod = "/" + serviceName + "/GetHospital"
	streamFleetMethod = "/" + serviceName + "/StreamFleet"
)

type FleetServiceServer interface {
	GetFleet(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetHospital(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StreamFleet(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
}

func RegisterFleetServiceServer(s grpc.ServiceRegistrar, srv FleetServiceServer) {
	s.RegisterService(&FleetServiceDesc, srv)
}

var FleetServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FleetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetFleet", Handler: getFleetHandler},
		{MethodName: "GetStats", Handler: getStatsHandler},
		{MethodName: "GetHospital", Handler: getHospitalHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamFleet", Handler: streamFleetHandler, ServerStreams: true},
	},
}

func getFleetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FleetServiceServer).GetFleet(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getFleetMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FleetServiceServer).GetFleet(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FleetServiceServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStatsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FleetServiceServer).GetStats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getHospitalHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FleetServiceServer).GetHospital(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getHospitalMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FleetServiceServer).GetHospital(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func streamFleetHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(FleetServiceServer).StreamFleet(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}
