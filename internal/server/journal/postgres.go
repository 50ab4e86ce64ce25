// Package journal persists ledger mutations to PostgreSQL and loads them
// back for replay.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/dbx"
	"github.com/dmitrijs2005/workcredits/internal/ledger"
	"github.com/dmitrijs2005/workcredits/internal/server/models"
	"github.com/dmitrijs2005/workcredits/internal/server/repositories/repomanager"
)

const reconcileTimeout = 5 * time.Second

// PostgresJournal implements ledger.Journal on top of the repositories
// vended by a RepositoryManager.
type PostgresJournal struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewPostgresJournal(db *sql.DB, rm repomanager.RepositoryManager) *PostgresJournal {
	return &PostgresJournal{db: db, rm: rm}
}

// AppendTransaction stores tx only if it directly follows the last stored
// id, so two writers can never both extend the journal from the same point.
//
// A failed commit may still have been applied by the server when only the
// acknowledgement was lost. In that case the row is read back: a stored
// copy of tx counts as success and a missing row as a plain failure. When
// the row cannot be read the error wraps common.ErrJournalUncertain.
func (j *PostgresJournal) AppendTransaction(ctx context.Context, tx ledger.Transaction) error {
	row := toModel(tx)
	inserted := false
	err := dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, q dbx.DBTX) error {
		repo := j.rm.Transactions(q)

		last, err := repo.LastID(ctx)
		if err != nil {
			return err
		}
		if last+1 != tx.ID {
			return fmt.Errorf("%w: journal is at %d, got transaction %d", common.ErrJournalConflict, last, tx.ID)
		}
		if err := repo.Append(ctx, row); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err == nil || !inserted {
		return err
	}
	// only the commit failed
	return j.reconcile(ctx, row, err)
}

func (j *PostgresJournal) reconcile(ctx context.Context, want *models.Transaction, cause error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()

	stored, err := j.rm.Transactions(j.db).Get(ctx, want.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return cause
	case err != nil:
		return fmt.Errorf("%w: transaction %d: %v (read back: %v)", common.ErrJournalUncertain, want.ID, cause, err)
	case !sameTransaction(stored, want):
		return fmt.Errorf("%w: transaction %d stored with different content", common.ErrJournalConflict, want.ID)
	}
	return nil
}

func sameTransaction(a, b *models.Transaction) bool {
	return a.ID == b.ID &&
		a.Type == b.Type &&
		a.Admin == b.Admin &&
		a.Sender == b.Sender &&
		a.Recipient == b.Recipient &&
		a.Amount == b.Amount &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func (j *PostgresJournal) SaveRole(ctx context.Context, p ledger.Principal, role ledger.Role) error {
	return j.rm.Accounts(j.db).UpsertRole(ctx, p.String(), string(role))
}

func (j *PostgresJournal) SaveProfile(ctx context.Context, p ledger.Principal, prof ledger.Profile) error {
	return j.rm.Accounts(j.db).UpsertProfile(ctx, p.String(), prof.Name)
}

// Load reads roles, profiles and transactions from one consistent snapshot.
func (j *PostgresJournal) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{Roles: make(map[ledger.Principal]ledger.Role)}

	err := dbx.WithTx(ctx, j.db, dbx.SnapshotOptions, func(ctx context.Context, q dbx.DBTX) error {
		accounts := j.rm.Accounts(q)

		roles, err := accounts.ListRoles(ctx)
		if err != nil {
			return err
		}
		for _, r := range roles {
			snap.Roles[ledger.Principal(r.Principal)] = ledger.Role(r.Role)
		}

		profiles, err := accounts.ListProfiles(ctx)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			snap.Profiles = append(snap.Profiles, ledger.RegisteredUser{Principal: ledger.Principal(p.Principal), Name: p.Name})
		}

		rows, err := j.rm.Transactions(q).List(ctx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			tx, err := fromModel(row)
			if err != nil {
				return err
			}
			snap.Transactions = append(snap.Transactions, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func toModel(tx ledger.Transaction) *models.Transaction {
	return &models.Transaction{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Admin:     tx.Admin.String(),
		Sender:    tx.Sender.String(),
		Recipient: tx.Recipient.String(),
		Amount:    tx.Amount.String(),
		CreatedAt: tx.Timestamp.UTC(),
	}
}

func fromModel(m *models.Transaction) (ledger.Transaction, error) {
	amount, ok := new(big.Int).SetString(m.Amount, 10)
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("%w: transaction %d has amount %q", common.ErrCorruptJournal, m.ID, m.Amount)
	}
	return ledger.Transaction{
		ID:        m.ID,
		Type:      ledger.TransactionType(m.Type),
		Admin:     ledger.Principal(m.Admin),
		Sender:    ledger.Principal(m.Sender),
		Recipient: ledger.Principal(m.Recipient),
		Amount:    amount,
		Timestamp: m.CreatedAt,
	}, nil
}

var _ ledger.Journal = (*PostgresJournal)(nil)
