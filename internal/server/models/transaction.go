// Package models defines the rows the ledger journal stores in PostgreSQL.
package models

import "time"

// Transaction is one committed ledger record. Admin is empty for
// transfers, Sender is empty for mints. Amount holds the decimal text of
// an arbitrary precision integer.
type Transaction struct {
	ID        uint64    `db:"id"`
	Type      string    `db:"tx_type"`
	Admin     string    `db:"admin_principal"`
	Sender    string    `db:"sender"`
	Recipient string    `db:"recipient"`
	Amount    string    `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}
