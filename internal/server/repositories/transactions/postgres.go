package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/dbx"
	"github.com/dmitrijs2005/workcredits/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository stores transactions over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO ledger_transactions (id, tx_type, admin_principal, sender, recipient, amount, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6::numeric, $7)
	`
	_, err := r.db.ExecContext(ctx, query, tx.ID, tx.Type, tx.Admin, tx.Sender, tx.Recipient, tx.Amount, tx.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: transaction %d already stored", common.ErrJournalConflict, tx.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LastID(ctx context.Context) (uint64, error) {
	query := `
		SELECT COALESCE(MAX(id), 0)
		FROM ledger_transactions
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(id), nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uint64) (*models.Transaction, error) {
	query := `
		SELECT id, tx_type, COALESCE(admin_principal, ''), COALESCE(sender, ''), recipient, amount::text, created_at
		FROM ledger_transactions
		WHERE id = $1
	`
	var (
		t   models.Transaction
		got int64
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&got, &t.Type, &t.Admin, &t.Sender, &t.Recipient, &t.Amount, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.ID = uint64(got)
	return &t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT id, tx_type, COALESCE(admin_principal, ''), COALESCE(sender, ''), recipient, amount::text, created_at
		FROM ledger_transactions
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		var (
			t  models.Transaction
			id int64
		)
		if err := rows.Scan(&id, &t.Type, &t.Admin, &t.Sender, &t.Recipient, &t.Amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.ID = uint64(id)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
