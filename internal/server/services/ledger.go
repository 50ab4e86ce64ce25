// Package services composes the ledger engine with the server side
// integrations the transport exposes.
package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
	"github.com/dmitrijs2005/workcredits/internal/logging"
)

// Archiver stores a copy of the transaction ledger and returns its key.
type Archiver interface {
	Export(ctx context.Context, txs []ledger.Transaction, supply *big.Int) (string, error)
}

// LedgerService is the ledger engine plus export to the archive.
type LedgerService struct {
	*ledger.Engine
	archiver Archiver
	logger   logging.Logger
}

func NewLedgerService(e *ledger.Engine, a Archiver, l logging.Logger) *LedgerService {
	return &LedgerService{
		Engine:   e,
		archiver: a,
		logger:   l.With("module", "ledger_service"),
	}
}

// ExportLedger uploads the full transaction ledger. Only admins may export.
func (s *LedgerService) ExportLedger(ctx context.Context) (string, int, error) {
	admin, err := s.IsCallerAdmin(ctx)
	if err != nil {
		return "", 0, err
	}
	if !admin {
		return "", 0, fmt.Errorf("%w: export requires admin", common.ErrUnauthorized)
	}
	if s.archiver == nil {
		return "", 0, fmt.Errorf("%w: archive is not configured", common.ErrInternal)
	}

	txs := s.TransactionLedger(ctx)
	key, err := s.archiver.Export(ctx, txs, mintedBy(txs))
	if err != nil {
		s.logger.Error(ctx, "ledger export failed", "error", err)
		return "", 0, fmt.Errorf("%w: export failed", common.ErrInternal)
	}

	s.logger.Info(ctx, "ledger exported", "key", key, "transactions", len(txs))
	return key, len(txs), nil
}

// mintedBy sums the mints in txs, which is the supply as of the last one.
func mintedBy(txs []ledger.Transaction) *big.Int {
	sum := new(big.Int)
	for _, tx := range txs {
		if tx.Type == ledger.TypeMint {
			sum.Add(sum, tx.Amount)
		}
	}
	return sum
}
