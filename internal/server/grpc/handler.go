package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/identityapi"
	"github.com/dmitrijs2005/cupid/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) SignUp(ctx context.Context, req *identityapi.SignUpRequest) (*identityapi.AuthResponse, error) {
	sess, err := s.identity.SignUp(ctx, services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	if err != nil {
		s.logError(ctx, "sign up failed", err)
		return nil, toStatus(err)
	}
	return authResponse(sess), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *identityapi.SignInRequest) (*identityapi.AuthResponse, error) {
	sess, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.logError(ctx, "sign in failed", err)
		return nil, toStatus(err)
	}
	return authResponse(sess), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, _ *identityapi.SignOutRequest) (*identityapi.SignOutResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.identity.SignOut(ctx, claims); err != nil {
		s.logError(ctx, "sign out failed", err)
		return nil, toStatus(err)
	}
	return &identityapi.SignOutResponse{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *identityapi.ResetPasswordRequest) (*identityapi.ResetPasswordResponse, error) {
	if err := s.identity.ResetPassword(ctx, req.Email); err != nil {
		s.logError(ctx, "reset password failed", err)
		return nil, toStatus(err)
	}
	return &identityapi.ResetPasswordResponse{}, nil
}

func authResponse(sess *services.Session) *identityapi.AuthResponse {
	return &identityapi.AuthResponse{UserID: sess.UserID, Token: sess.Token, DisplayName: sess.DisplayName}
}

// logError keeps expected client mistakes at debug level.
func (s *GRPCServer) logError(ctx context.Context, msg string, err error) {
	if status.Code(toStatus(err)) == codes.Internal {
		s.logger.Error(ctx, msg, "error", err)
		return
	}
	s.logger.Debug(ctx, msg, "error", err)
}

// toStatus maps service errors to gRPC statuses. The client shows the
// message of a few of them to the user, so they stay short.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "token expired")
	case errors.Is(err, common.ErrTokenRevoked):
		return status.Error(codes.Unauthenticated, "token revoked")
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
