package grpc

import (
	"context"

	"github.com/dmitrijs2005/workcredits/internal/api"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) AssignCallerUserRole(ctx context.Context, req *api.AssignRoleRequest) (*api.Empty, error) {
	role, err := ledger.ParseRole(req.Role)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.ledger.AssignRole(ctx, ledger.Principal(req.Principal), role); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) GetAllRegisteredUsersWithNames(ctx context.Context, req *api.Empty) (*api.RegisteredUsersResponse, error) {
	users := s.ledger.RegisteredUsers(ctx)

	out := make([]api.RegisteredUser, 0, len(users))
	for _, u := range users {
		out = append(out, api.RegisteredUser{Principal: u.Principal.String(), Name: u.Name})
	}
	return &api.RegisteredUsersResponse{Users: out}, nil
}

func (s *GRPCServer) GetCallerUserProfile(ctx context.Context, req *api.Empty) (*api.ProfileResponse, error) {
	prof, ok, err := s.ledger.CallerProfile(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return profileResponse(prof, ok), nil
}

func (s *GRPCServer) GetCallerUserRole(ctx context.Context, req *api.Empty) (*api.RoleResponse, error) {
	role, err := s.ledger.CallerRole(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RoleResponse{Role: string(role)}, nil
}

func (s *GRPCServer) GetTransactionHistory(ctx context.Context, req *api.PrincipalRequest) (*api.TransactionsResponse, error) {
	txs, err := s.ledger.TransactionHistory(ctx, optionalPrincipal(req.Principal))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.TransactionsResponse{Transactions: toAPITransactions(txs)}, nil
}

func (s *GRPCServer) GetTransactionLedger(ctx context.Context, req *api.Empty) (*api.TransactionsResponse, error) {
	return &api.TransactionsResponse{Transactions: toAPITransactions(s.ledger.TransactionLedger(ctx))}, nil
}

func (s *GRPCServer) GetUserProfile(ctx context.Context, req *api.UserProfileRequest) (*api.ProfileResponse, error) {
	prof, ok, err := s.ledger.UserProfile(ctx, ledger.Principal(req.Principal))
	if err != nil {
		return nil, toStatus(err)
	}
	return profileResponse(prof, ok), nil
}

func (s *GRPCServer) GetWalletBalance(ctx context.Context, req *api.PrincipalRequest) (*api.BalanceResponse, error) {
	balance, err := s.ledger.WalletBalance(ctx, optionalPrincipal(req.Principal))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.BalanceResponse{Balance: balance}, nil
}

func (s *GRPCServer) IsCallerAdmin(ctx context.Context, req *api.Empty) (*api.IsAdminResponse, error) {
	ok, err := s.ledger.IsCallerAdmin(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.IsAdminResponse{IsAdmin: ok}, nil
}

func (s *GRPCServer) MintCredits(ctx context.Context, req *api.MintRequest) (*api.TransactionResponse, error) {
	tx, err := s.ledger.Mint(ctx, ledger.Principal(req.Recipient), req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.TransactionResponse{Transaction: toAPITransaction(tx)}, nil
}

func (s *GRPCServer) SaveCallerUserProfile(ctx context.Context, req *api.SaveProfileRequest) (*api.Empty, error) {
	if err := s.ledger.SaveCallerProfile(ctx, ledger.Profile{Name: req.Profile.Name}); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) TransferCredits(ctx context.Context, req *api.TransferRequest) (*api.TransactionResponse, error) {
	tx, err := s.ledger.Transfer(ctx, ledger.Principal(req.Recipient), req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.TransactionResponse{Transaction: toAPITransaction(tx)}, nil
}

func (s *GRPCServer) GetWalletDetails(ctx context.Context, req *api.WalletDetailsRequest) (*api.WalletDetailsResponse, error) {
	prof, balance, err := s.ledger.WalletDetails(ctx, ledger.Principal(req.Principal))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WalletDetailsResponse{
		Principal: req.Principal,
		Profile:   api.Profile{Name: prof.Name},
		Balance:   balance,
	}, nil
}

func (s *GRPCServer) GetLedgerStats(ctx context.Context, req *api.Empty) (*api.StatsResponse, error) {
	st := s.ledger.Stats(ctx)
	return &api.StatsResponse{
		RegisteredUsers: st.RegisteredUsers,
		Transactions:    st.Transactions,
		Supply:          st.Supply,
	}, nil
}

func (s *GRPCServer) ExportLedger(ctx context.Context, req *api.Empty) (*api.ExportResponse, error) {
	key, n, err := s.ledger.ExportLedger(ctx)
	if err != nil {
		s.logger.Error(ctx, "ledger export failed", "error", err)
		return nil, toStatus(err)
	}
	return &api.ExportResponse{Key: key, Transactions: n}, nil
}

func optionalPrincipal(p *string) *ledger.Principal {
	if p == nil {
		return nil
	}
	v := ledger.Principal(*p)
	return &v
}

func profileResponse(prof ledger.Profile, ok bool) *api.ProfileResponse {
	if !ok {
		return &api.ProfileResponse{}
	}
	return &api.ProfileResponse{Profile: &api.Profile{Name: prof.Name}}
}

func toAPITransaction(tx ledger.Transaction) api.Transaction {
	return api.Transaction{
		ID:              tx.ID,
		TransactionType: string(tx.Type),
		Admin:           tx.Admin.String(),
		Sender:          tx.Sender.String(),
		Recipient:       tx.Recipient.String(),
		Amount:          tx.Amount,
		Timestamp:       tx.Timestamp,
	}
}

func toAPITransactions(txs []ledger.Transaction) []api.Transaction {
	out := make([]api.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toAPITransaction(tx))
	}
	return out
}

var _ LedgerServer = (*GRPCServer)(nil)
