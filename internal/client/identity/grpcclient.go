package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/cupid/internal/common"
	"github.com/dmitrijs2005/cupid/internal/identityapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	dialOpts    []grpc.DialOption

	conn   *grpc.ClientConn
	client *identityapi.Client

	mu    sync.RWMutex
	token string
}

var _ Backend = (*GRPCClient)(nil)

type Option func(*GRPCClient)

// WithRequestTimeout bounds every call made through the client.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.timeout = d }
}

// WithDialOptions appends extra dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.tokenInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(c.endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = identityapi.NewClient(conn)
	return c, nil
}

func withToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) tokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if token := c.Token(); token != "" {
		ctx = withToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *GRPCClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *GRPCClient) SignIn(ctx context.Context, email, password string) (*Account, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}

	resp, err := c.client.SignIn(ctx, &identityapi.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}

	c.SetToken(resp.Token)
	return accountFrom(resp), nil
}

func (c *GRPCClient) SignUp(ctx context.Context, req SignUpRequest) (*Account, error) {
	if req.Email == "" {
		return nil, ErrEmptyEmail
	}

	resp, err := c.client.SignUp(ctx, &identityapi.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	if err != nil {
		return nil, mapError(err)
	}

	c.SetToken(resp.Token)
	return accountFrom(resp), nil
}

func (c *GRPCClient) SignOut(ctx context.Context) error {
	if _, err := c.client.SignOut(ctx, &identityapi.SignOutRequest{}); err != nil {
		return mapError(err)
	}
	c.SetToken("")
	return nil
}

func (c *GRPCClient) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if _, err := c.client.ResetPassword(ctx, &identityapi.ResetPasswordRequest{Email: email}); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func accountFrom(resp *identityapi.AuthResponse) *Account {
	return &Account{UserID: resp.UserID, Token: resp.Token, DisplayName: resp.DisplayName}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AuthError{Code: CodeNetworkError, Cause: err}
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return &AuthError{Code: CodeAuthFailed, Cause: err}
	case codes.NotFound:
		return &AuthError{Code: CodeUserNotFound, Cause: err}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &AuthError{Code: CodeNetworkError, Cause: err}
	case codes.FailedPrecondition:
		return &AuthError{Code: CodeVerificationFailed, Cause: err}
	default:
		return &AuthError{Code: CodeBackend, Cause: err}
	}
}
