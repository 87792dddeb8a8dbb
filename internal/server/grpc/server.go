// Package grpc exposes the identity service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/cupid/internal/identityapi"
	"github.com/dmitrijs2005/cupid/internal/logging"
	"github.com/dmitrijs2005/cupid/internal/server/auth"
	"github.com/dmitrijs2005/cupid/internal/server/services"
	"google.golang.org/grpc"
)

// IdentityService is the business logic behind the handlers.
// *services.IdentityService satisfies it.
type IdentityService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
	ResetPassword(ctx context.Context, email string) error
}

type GRPCServer struct {
	address  string
	identity IdentityService
	logger   logging.Logger
}

var _ identityapi.Server = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc IdentityService) *GRPCServer {
	if l == nil {
		l = logging.Discard()
	}
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		identity: svc,
	}
}

// newServer builds the grpc.Server with the service and interceptors
// registered.
func (s *GRPCServer) newServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	}, opts...)
	srv := grpc.NewServer(opts...)
	identityapi.RegisterServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	<-stopped
	return nil
}
