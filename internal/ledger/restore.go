package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/workcredits/internal/common"
)

// Restore rebuilds an engine from the journal and keeps writing to it.
// Balances are not stored; they are replayed from the transactions.
func Restore(ctx context.Context, j Journal, opts ...Option) (*Engine, error) {
	snap, err := j.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}

	e := New(append(opts, WithJournal(j))...)
	if err := e.replay(snap); err != nil {
		return nil, err
	}

	e.logger.Info(ctx, "ledger restored",
		"roles", len(snap.Roles),
		"profiles", len(snap.Profiles),
		"transactions", len(snap.Transactions),
	)
	return e, nil
}

func (e *Engine) replay(s *Snapshot) error {
	if s == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for p, r := range s.Roles {
		if p.IsZero() || !r.Valid() {
			return fmt.Errorf("%w: role %q for %q", common.ErrCorruptJournal, r, p)
		}
		e.dir.setRole(p, r)
	}

	for _, u := range s.Profiles {
		if _, dup := e.dir.profile(u.Principal); dup {
			return fmt.Errorf("%w: duplicate profile for %s", common.ErrCorruptJournal, u.Principal)
		}
		prof, err := normalizeProfile(Profile{Name: u.Name})
		if err != nil || u.Principal.IsZero() {
			return fmt.Errorf("%w: profile for %q", common.ErrCorruptJournal, u.Principal)
		}
		e.dir.saveProfile(u.Principal, prof)
	}

	for i, tx := range s.Transactions {
		if want := uint64(i) + 1; tx.ID != want {
			return fmt.Errorf("%w: transaction id %d, want %d", common.ErrCorruptJournal, tx.ID, want)
		}
		if tx.Timestamp.Before(e.log.last) {
			return fmt.Errorf("%w: transaction %d goes back in time", common.ErrCorruptJournal, tx.ID)
		}
		if err := checkParties(tx); err != nil {
			return fmt.Errorf("%w: transaction %d: %v", common.ErrCorruptJournal, tx.ID, err)
		}
		if err := apply(e.bal, e.minted, tx); err != nil {
			return fmt.Errorf("%w: transaction %d: %v", common.ErrCorruptJournal, tx.ID, err)
		}
		e.log.push(tx)
	}
	return nil
}

func checkParties(tx Transaction) error {
	if tx.Recipient.IsZero() {
		return errors.New("no recipient")
	}
	switch tx.Type {
	case TypeMint:
		if tx.Admin.IsZero() {
			return errors.New("mint without admin")
		}
	case TypeTransfer:
		if tx.Sender.IsZero() {
			return errors.New("transfer without sender")
		}
	}
	return nil
}

// Audit recomputes every balance from the transaction log and checks it
// against the live store, and checks that the total supply equals the sum
// of all mints.
func (e *Engine) Audit(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rebuilt := newBalances()
	minted := new(big.Int)
	for _, tx := range e.log.entries {
		if err := apply(rebuilt, minted, tx); err != nil {
			return fmt.Errorf("%w: transaction %d: %v", common.ErrLedgerDiverged, tx.ID, err)
		}
	}

	for p := range e.bal.m {
		if _, ok := rebuilt.m[p]; !ok {
			rebuilt.m[p] = new(big.Int)
		}
	}
	for p, want := range rebuilt.m {
		got := e.bal.balance(p)
		if got.Sign() < 0 {
			return fmt.Errorf("%w: negative balance for %s", common.ErrLedgerDiverged, p)
		}
		if got.Cmp(want) != 0 {
			return fmt.Errorf("%w: balance of %s is %s, log says %s", common.ErrLedgerDiverged, p, got, want)
		}
	}

	if total := e.bal.total(); total.Cmp(minted) != 0 {
		return fmt.Errorf("%w: supply %s, minted %s", common.ErrLedgerDiverged, total, minted)
	}
	if e.minted.Cmp(minted) != 0 {
		return fmt.Errorf("%w: minted counter %s, log says %s", common.ErrLedgerDiverged, e.minted, minted)
	}

	e.logger.Debug(ctx, "ledger audit passed", "transactions", e.log.len(), "supply", minted.String())
	return nil
}
