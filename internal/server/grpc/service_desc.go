package grpc

import (
	"context"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"google.golang.org/grpc"
)

// LedgerServer is the server side of workcredits.ledger.v1.LedgerService.
type LedgerServer interface {
	Ping(context.Context, *api.Empty) (*api.PingResponse, error)
	AssignCallerUserRole(context.Context, *api.AssignRoleRequest) (*api.Empty, error)
	GetAllRegisteredUsersWithNames(context.Context, *api.Empty) (*api.RegisteredUsersResponse, error)
	GetCallerUserProfile(context.Context, *api.Empty) (*api.ProfileResponse, error)
	GetCallerUserRole(context.Context, *api.Empty) (*api.RoleResponse, error)
	GetTransactionHistory(context.Context, *api.PrincipalRequest) (*api.TransactionsResponse, error)
	GetTransactionLedger(context.Context, *api.Empty) (*api.TransactionsResponse, error)
	GetUserProfile(context.Context, *api.UserProfileRequest) (*api.ProfileResponse, error)
	GetWalletBalance(context.Context, *api.PrincipalRequest) (*api.BalanceResponse, error)
	IsCallerAdmin(context.Context, *api.Empty) (*api.IsAdminResponse, error)
	MintCredits(context.Context, *api.MintRequest) (*api.TransactionResponse, error)
	SaveCallerUserProfile(context.Context, *api.SaveProfileRequest) (*api.Empty, error)
	TransferCredits(context.Context, *api.TransferRequest) (*api.TransactionResponse, error)
	GetWalletDetails(context.Context, *api.WalletDetailsRequest) (*api.WalletDetailsResponse, error)
	GetLedgerStats(context.Context, *api.Empty) (*api.StatsResponse, error)
	ExportLedger(context.Context, *api.Empty) (*api.ExportResponse, error)
}

// RegisterLedgerServer registers the ledger service methods on registrar.
func RegisterLedgerServer(registrar grpc.ServiceRegistrar, server LedgerServer) {
	api.EnsureJSONCodec()
	registrar.RegisterService(&ledgerServiceDesc, server)
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(api.MethodPing, LedgerServer.Ping),
		unary(api.MethodAssignCallerUserRole, LedgerServer.AssignCallerUserRole),
		unary(api.MethodGetAllRegisteredUsersWithNames, LedgerServer.GetAllRegisteredUsersWithNames),
		unary(api.MethodGetCallerUserProfile, LedgerServer.GetCallerUserProfile),
		unary(api.MethodGetCallerUserRole, LedgerServer.GetCallerUserRole),
		unary(api.MethodGetTransactionHistory, LedgerServer.GetTransactionHistory),
		unary(api.MethodGetTransactionLedger, LedgerServer.GetTransactionLedger),
		unary(api.MethodGetUserProfile, LedgerServer.GetUserProfile),
		unary(api.MethodGetWalletBalance, LedgerServer.GetWalletBalance),
		unary(api.MethodIsCallerAdmin, LedgerServer.IsCallerAdmin),
		unary(api.MethodMintCredits, LedgerServer.MintCredits),
		unary(api.MethodSaveCallerUserProfile, LedgerServer.SaveCallerUserProfile),
		unary(api.MethodTransferCredits, LedgerServer.TransferCredits),
		unary(api.MethodGetWalletDetails, LedgerServer.GetWalletDetails),
		unary(api.MethodGetLedgerStats, LedgerServer.GetLedgerStats),
		unary(api.MethodExportLedger, LedgerServer.ExportLedger),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workcredits/ledger/v1/ledger.proto",
}

// unary adapts a typed LedgerServer method to a grpc.MethodDesc: decode the
// request, then call through the interceptor chain when there is one.
func unary[Req, Resp any](name string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, decodeError(err)
			}
			if interceptor == nil {
				return call(srv.(LedgerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: api.FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
