package ledger

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/common"
)

// Principal is an opaque caller identifier issued by the identity provider.
type Principal string

func (p Principal) String() string { return string(p) }

// IsZero reports whether p is empty or blank.
func (p Principal) IsZero() bool { return strings.TrimSpace(string(p)) == "" }

// Role is the access level of a principal.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// DefaultRole is the role of a principal that was never assigned one.
const DefaultRole = RoleGuest

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// ParseRole converts a case-insensitive role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidRole, s)
	}
	return r, nil
}

// Profile is the public display information of a principal.
type Profile struct {
	Name string `json:"name"`
}

// RegisteredUser pairs a principal with its profile name.
type RegisteredUser struct {
	Principal Principal `json:"principal"`
	Name      string    `json:"name"`
}

type TransactionType string

const (
	TypeMint     TransactionType = "mint"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is an immutable ledger record. Admin is set only for mints,
// Sender only for transfers.
type Transaction struct {
	ID        uint64          `json:"id"`
	Type      TransactionType `json:"transactionType"`
	Admin     Principal       `json:"admin,omitempty"`
	Sender    Principal       `json:"sender,omitempty"`
	Recipient Principal       `json:"recipient"`
	Amount    *big.Int        `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// Involves reports whether p is the sender, recipient or minting admin.
func (t Transaction) Involves(p Principal) bool {
	return t.Sender == p || t.Recipient == p || (t.Type == TypeMint && t.Admin == p)
}

func (t Transaction) clone() Transaction {
	c := t
	c.Amount = cloneInt(t.Amount)
	return c
}

// Stats summarises the ledger for the admin dashboard.
type Stats struct {
	RegisteredUsers int      `json:"registeredUsers"`
	Transactions    int      `json:"transactions"`
	Supply          *big.Int `json:"supply"`
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func positive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}

func cloneTransactions(in []Transaction) []Transaction {
	out := make([]Transaction, len(in))
	for i, t := range in {
		out[i] = t.clone()
	}
	return out
}
