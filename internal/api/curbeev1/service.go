package curbeev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	AppointmentsService_GetAppointment_FullMethodName               = "/curbee.v1.AppointmentsService/GetAppointment"
	AppointmentsService_FindAppointments_FullMethodName             = "/curbee.v1.AppointmentsService/FindAppointments"
	AppointmentsService_CreateAppointment_FullMethodName            = "/curbee.v1.AppointmentsService/CreateAppointment"
	AppointmentsService_CreateAppointmentWithDetails_FullMethodName = "/curbee.v1.AppointmentsService/CreateAppointmentWithDetails"
)

type AppointmentsServiceServer interface {
	GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error)
	FindAppointments(context.Context, *FindAppointmentsRequest) (*FindAppointmentsResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	CreateAppointmentWithDetails(context.Context, *CreateAppointmentWithDetailsRequest) (*CreateAppointmentWithDetailsResponse, error)
}

// UnimplementedAppointmentsServiceServer can be embedded to keep a server
// compiling when methods are added.
type UnimplementedAppointmentsServiceServer struct{}

func (UnimplementedAppointmentsServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) FindAppointments(context.Context, *FindAppointmentsRequest) (*FindAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindAppointments not implemented")
}

func (UnimplementedAppointmentsServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}

func (UnimplementedAppointmentsServiceServer) CreateAppointmentWithDetails(context.Context, *CreateAppointmentWithDetailsRequest) (*CreateAppointmentWithDetailsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointmentWithDetails not implemented")
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&AppointmentsService_ServiceDesc, srv)
}

var AppointmentsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "curbee.v1.AppointmentsService",
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAppointment",
			Handler:    unaryHandler(AppointmentsService_GetAppointment_FullMethodName, AppointmentsServiceServer.GetAppointment),
		},
		{
			MethodName: "FindAppointments",
			Handler:    unaryHandler(AppointmentsService_FindAppointments_FullMethodName, AppointmentsServiceServer.FindAppointments),
		},
		{
			MethodName: "CreateAppointment",
			Handler:    unaryHandler(AppointmentsService_CreateAppointment_FullMethodName, AppointmentsServiceServer.CreateAppointment),
		},
		{
			MethodName: "CreateAppointmentWithDetails",
			Handler:    unaryHandler(AppointmentsService_CreateAppointmentWithDetails_FullMethodName, AppointmentsServiceServer.CreateAppointmentWithDetails),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "curbee/v1/appointments",
}

func unaryHandler[Req, Resp any](fullMethod string, call func(AppointmentsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AppointmentsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AppointmentsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type AppointmentsServiceClient interface {
	GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error)
	FindAppointments(ctx context.Context, in *FindAppointmentsRequest, opts ...grpc.CallOption) (*FindAppointmentsResponse, error)
	CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error)
	CreateAppointmentWithDetails(ctx context.Context, in *CreateAppointmentWithDetailsRequest, opts ...grpc.CallOption) (*CreateAppointmentWithDetailsResponse, error)
}

type appointmentsServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAppointmentsServiceClient returns a client that always speaks the JSON
// content-subtype.
func NewAppointmentsServiceClient(cc grpc.ClientConnInterface) AppointmentsServiceClient {
	return &appointmentsServiceClient{cc: cc}
}

func (c *appointmentsServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error) {
	out := new(GetAppointmentResponse)
	if err := c.invoke(ctx, AppointmentsService_GetAppointment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *appointmentsServiceClient) FindAppointments(ctx context.Context, in *FindAppointmentsRequest, opts ...grpc.CallOption) (*FindAppointmentsResponse, error) {
	out := new(FindAppointmentsResponse)
	if err := c.invoke(ctx, AppointmentsService_FindAppointments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *appointmentsServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error) {
	out := new(CreateAppointmentResponse)
	if err := c.invoke(ctx, AppointmentsService_CreateAppointment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *appointmentsServiceClient) CreateAppointmentWithDetails(ctx context.Context, in *CreateAppointmentWithDetailsRequest, opts ...grpc.CallOption) (*CreateAppointmentWithDetailsResponse, error) {
	out := new(CreateAppointmentWithDetailsResponse)
	if err := c.invoke(ctx, AppointmentsService_CreateAppointmentWithDetails_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *appointmentsServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
