package ledger

import (
	"context"
	"math/big"
)

// Journal durably records committed ledger events. The engine writes to
// the journal before it applies a change in memory; if the write fails the
// call is rejected and nothing changes.
//
// AppendTransaction returns an error wrapping common.ErrJournalUncertain
// when it cannot tell whether tx was stored, and common.ErrJournalConflict
// when the journal already holds a different transaction under tx.ID.
// Either one halts the engine's writes until it is rebuilt with Restore.
//
// Balances are not journaled: they are rebuilt from the transactions.
type Journal interface {
	AppendTransaction(ctx context.Context, tx Transaction) error
	SaveRole(ctx context.Context, p Principal, role Role) error
	SaveProfile(ctx context.Context, p Principal, prof Profile) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is the journal content needed to rebuild an Engine.
// Profiles are in registration order and Transactions in id order.
type Snapshot struct {
	Roles        map[Principal]Role
	Profiles     []RegisteredUser
	Transactions []Transaction
}

// Recorder observes committed and rejected calls, e.g. for metrics.
type Recorder interface {
	Committed(tx Transaction, supply *big.Int)
	Rejected(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Committed(Transaction, *big.Int) {}
func (nopRecorder) Rejected(string, error)     {}
