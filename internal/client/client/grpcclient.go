package client

import (
	"context"
	"math/big"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

// NewGRPCClient connects lazily to endpointURL. An empty accessToken makes
// anonymous calls, which the server only accepts for Ping.
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	api.EnsureJSONCodec()

	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(c.requestIDInterceptor, c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func withMetadata(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withMetadata(ctx, common.AccessTokenHeaderName, c.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(common.RequestIDHeaderName)) == 0 {
		ctx = withMetadata(ctx, common.RequestIDHeaderName, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	return mapError(c.conn.Invoke(ctx, api.FullMethod(method), req, resp))
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp := &api.PingResponse{}
	if err := c.invoke(ctx, api.MethodPing, &api.Empty{}, resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) AssignRole(ctx context.Context, principal, role string) error {
	return c.invoke(ctx, api.MethodAssignCallerUserRole, &api.AssignRoleRequest{Principal: principal, Role: role}, &api.Empty{})
}

func (c *GRPCClient) RegisteredUsers(ctx context.Context) ([]api.RegisteredUser, error) {
	resp := &api.RegisteredUsersResponse{}
	if err := c.invoke(ctx, api.MethodGetAllRegisteredUsersWithNames, &api.Empty{}, resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// CallerProfile returns nil when the caller has not saved a profile.
func (c *GRPCClient) CallerProfile(ctx context.Context) (*api.Profile, error) {
	resp := &api.ProfileResponse{}
	if err := c.invoke(ctx, api.MethodGetCallerUserProfile, &api.Empty{}, resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *GRPCClient) CallerRole(ctx context.Context) (string, error) {
	resp := &api.RoleResponse{}
	if err := c.invoke(ctx, api.MethodGetCallerUserRole, &api.Empty{}, resp); err != nil {
		return "", err
	}
	return resp.Role, nil
}

func (c *GRPCClient) TransactionHistory(ctx context.Context, principal *string) ([]api.Transaction, error) {
	resp := &api.TransactionsResponse{}
	if err := c.invoke(ctx, api.MethodGetTransactionHistory, &api.PrincipalRequest{Principal: principal}, resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *GRPCClient) TransactionLedger(ctx context.Context) ([]api.Transaction, error) {
	resp := &api.TransactionsResponse{}
	if err := c.invoke(ctx, api.MethodGetTransactionLedger, &api.Empty{}, resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *GRPCClient) UserProfile(ctx context.Context, principal string) (*api.Profile, error) {
	resp := &api.ProfileResponse{}
	if err := c.invoke(ctx, api.MethodGetUserProfile, &api.UserProfileRequest{Principal: principal}, resp); err != nil {
		return nil, err
	}
	return resp.Profile, nil
}

func (c *GRPCClient) WalletBalance(ctx context.Context, principal *string) (*big.Int, error) {
	resp := &api.BalanceResponse{}
	if err := c.invoke(ctx, api.MethodGetWalletBalance, &api.PrincipalRequest{Principal: principal}, resp); err != nil {
		return nil, err
	}
	if resp.Balance == nil {
		return new(big.Int), nil
	}
	return resp.Balance, nil
}

func (c *GRPCClient) IsCallerAdmin(ctx context.Context) (bool, error) {
	resp := &api.IsAdminResponse{}
	if err := c.invoke(ctx, api.MethodIsCallerAdmin, &api.Empty{}, resp); err != nil {
		return false, err
	}
	return resp.IsAdmin, nil
}

func (c *GRPCClient) MintCredits(ctx context.Context, recipient string, amount *big.Int) (api.Transaction, error) {
	resp := &api.TransactionResponse{}
	if err := c.invoke(ctx, api.MethodMintCredits, &api.MintRequest{Recipient: recipient, Amount: amount}, resp); err != nil {
		return api.Transaction{}, err
	}
	return resp.Transaction, nil
}

func (c *GRPCClient) SaveCallerProfile(ctx context.Context, name string) error {
	return c.invoke(ctx, api.MethodSaveCallerUserProfile, &api.SaveProfileRequest{Profile: api.Profile{Name: name}}, &api.Empty{})
}

func (c *GRPCClient) TransferCredits(ctx context.Context, recipient string, amount *big.Int) (api.Transaction, error) {
	resp := &api.TransactionResponse{}
	if err := c.invoke(ctx, api.MethodTransferCredits, &api.TransferRequest{Recipient: recipient, Amount: amount}, resp); err != nil {
		return api.Transaction{}, err
	}
	return resp.Transaction, nil
}

func (c *GRPCClient) WalletDetails(ctx context.Context, principal string) (*api.WalletDetailsResponse, error) {
	resp := &api.WalletDetailsResponse{}
	if err := c.invoke(ctx, api.MethodGetWalletDetails, &api.WalletDetailsRequest{Principal: principal}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *GRPCClient) Stats(ctx context.Context) (*api.StatsResponse, error) {
	resp := &api.StatsResponse{}
	if err := c.invoke(ctx, api.MethodGetLedgerStats, &api.Empty{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *GRPCClient) ExportLedger(ctx context.Context) (*api.ExportResponse, error) {
	resp := &api.ExportResponse{}
	if err := c.invoke(ctx, api.MethodExportLedger, &api.Empty{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
