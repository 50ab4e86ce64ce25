package grpc

import (
	"context"
	"math/big"
	"net"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/ledger"
	"github.com/dmitrijs2005/workcredits/internal/logging"
	"google.golang.org/grpc"
)

// Ledger is what the transport needs from the ledger service.
type Ledger interface {
	Mint(ctx context.Context, recipient ledger.Principal, amount *big.Int) (ledger.Transaction, error)
	Transfer(ctx context.Context, recipient ledger.Principal, amount *big.Int) (ledger.Transaction, error)
	AssignRole(ctx context.Context, target ledger.Principal, role ledger.Role) error
	CallerRole(ctx context.Context) (ledger.Role, error)
	IsCallerAdmin(ctx context.Context) (bool, error)
	CallerProfile(ctx context.Context) (ledger.Profile, bool, error)
	UserProfile(ctx context.Context, p ledger.Principal) (ledger.Profile, bool, error)
	SaveCallerProfile(ctx context.Context, prof ledger.Profile) error
	RegisteredUsers(ctx context.Context) []ledger.RegisteredUser
	WalletBalance(ctx context.Context, p *ledger.Principal) (*big.Int, error)
	TransactionHistory(ctx context.Context, p *ledger.Principal) ([]ledger.Transaction, error)
	TransactionLedger(ctx context.Context) []ledger.Transaction
	WalletDetails(ctx context.Context, p ledger.Principal) (ledger.Profile, *big.Int, error)
	Stats(ctx context.Context) ledger.Stats
	ExportLedger(ctx context.Context) (key string, transactions int, err error)
}

// Observer receives the outcome of every RPC.
type Observer interface {
	ObserveRPC(method, code string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRPC(string, string, time.Duration) {}

type GRPCServer struct {
	address   string
	ledger    Ledger
	logger    logging.Logger
	observer  Observer
	jwtSecret []byte
}

type Option func(*GRPCServer)

func WithObserver(o Observer) Option {
	return func(s *GRPCServer) { s.observer = o }
}

func NewGRPCServer(a string, l logging.Logger, lg Ledger, secretKey string, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		ledger:    lg,
		observer:  nopObserver{},
		jwtSecret: []byte(secretKey),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	RegisterLedgerServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
