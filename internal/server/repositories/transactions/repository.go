// Package transactions declares the storage contract for the append-only
// transaction journal.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/workcredits/internal/server/models"
)

type Repository interface {
	// Append inserts tx. A row with the same id yields common.ErrJournalConflict.
	Append(ctx context.Context, tx *models.Transaction) error

	// LastID returns the highest stored id, 0 when the journal is empty.
	LastID(ctx context.Context) (uint64, error)

	// Get returns the transaction with the given id, common.ErrNotFound
	// when there is none.
	Get(ctx context.Context, id uint64) (*models.Transaction, error)

	// List returns every transaction in id order.
	List(ctx context.Context) ([]*models.Transaction, error)
}
