// Package identityapi is the wire contract between the Cupid client and the
// identity backend: a hand-registered gRPC service whose payloads are
// google.protobuf.Struct values.
package identityapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "cupid.identity.v1.Identity"

const (
	MethodSignIn        = "/" + ServiceName + "/SignIn"
	MethodSignUp        = "/" + ServiceName + "/SignUp"
	MethodSignOut       = "/" + ServiceName + "/SignOut"
	MethodResetPassword = "/" + ServiceName + "/ResetPassword"
)

// Server is implemented by the identity backend.
type Server interface {
	SignIn(ctx context.Context, req *SignInRequest) (*AuthResponse, error)
	SignUp(ctx context.Context, req *SignUpRequest) (*AuthResponse, error)
	SignOut(ctx context.Context, req *SignOutRequest) (*SignOutResponse, error)
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) (*ResetPasswordResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignIn", Handler: unaryHandler[SignInRequest](MethodSignIn, Server.SignIn)},
		{MethodName: "SignUp", Handler: unaryHandler[SignUpRequest](MethodSignUp, Server.SignUp)},
		{MethodName: "SignOut", Handler: unaryHandler[SignOutRequest](MethodSignOut, Server.SignOut)},
		{MethodName: "ResetPassword", Handler: unaryHandler[ResetPasswordRequest](MethodResetPassword, Server.ResetPassword)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cupid/identity/v1/identity",
}

// RegisterServer attaches srv to a gRPC server.
func RegisterServer(r grpc.ServiceRegistrar, srv Server) {
	r.RegisterService(&ServiceDesc, srv)
}

// unaryHandler decodes the Struct payload into Req, runs the interceptor
// chain with the typed request and encodes the typed response.
func unaryHandler[Req any, PReq interface {
	*Req
	Message
}, Resp Message](fullMethod string, call func(Server, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		req := PReq(new(Req))
		if err := req.fromStruct(in); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		invoke := func(ctx context.Context, r any) (any, error) {
			resp, err := call(srv.(Server), ctx, r.(PReq))
			if err != nil {
				return nil, err
			}
			out, err := resp.toStruct()
			if err != nil {
				return nil, status.Error(codes.Internal, err.Error())
			}
			return out, nil
		}

		if interceptor == nil {
			return invoke(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, invoke)
	}
}

// Client is the caller side of the service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	out := new(AuthResponse)
	if err := c.invoke(ctx, MethodSignIn, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	out := new(AuthResponse)
	if err := c.invoke(ctx, MethodSignUp, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*SignOutResponse, error) {
	out := new(SignOutResponse)
	if err := c.invoke(ctx, MethodSignOut, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*ResetPasswordResponse, error) {
	out := new(ResetPasswordResponse)
	if err := c.invoke(ctx, MethodResetPassword, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out Message, opts ...grpc.CallOption) error {
	req, err := in.toStruct()
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	return out.fromStruct(resp)
}
