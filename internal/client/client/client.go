package client

import (
	"context"
	"math/big"

	"github.com/dmitrijs2005/workcredits/internal/api"
)

// Client is the ledger API as seen by the CLI.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	AssignRole(ctx context.Context, principal, role string) error
	RegisteredUsers(ctx context.Context) ([]api.RegisteredUser, error)
	CallerProfile(ctx context.Context) (*api.Profile, error)
	CallerRole(ctx context.Context) (string, error)
	TransactionHistory(ctx context.Context, principal *string) ([]api.Transaction, error)
	TransactionLedger(ctx context.Context) ([]api.Transaction, error)
	UserProfile(ctx context.Context, principal string) (*api.Profile, error)
	WalletBalance(ctx context.Context, principal *string) (*big.Int, error)
	IsCallerAdmin(ctx context.Context) (bool, error)
	MintCredits(ctx context.Context, recipient string, amount *big.Int) (api.Transaction, error)
	SaveCallerProfile(ctx context.Context, name string) error
	TransferCredits(ctx context.Context, recipient string, amount *big.Int) (api.Transaction, error)
	WalletDetails(ctx context.Context, principal string) (*api.WalletDetailsResponse, error)
	Stats(ctx context.Context) (*api.StatsResponse, error)
	ExportLedger(ctx context.Context) (*api.ExportResponse, error)
}

var _ Client = (*GRPCClient)(nil)
