package api

import (
	"math/big"
	"time"
)

// Amounts and balances are encoded as JSON numbers of any length.

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type Profile struct {
	Name string `json:"name"`
}

type RegisteredUser struct {
	Principal string `json:"principal"`
	Name      string `json:"name"`
}

type Transaction struct {
	ID              uint64    `json:"id"`
	TransactionType string    `json:"transactionType"`
	Admin           string    `json:"admin,omitempty"`
	Sender          string    `json:"sender,omitempty"`
	Recipient       string    `json:"recipient"`
	Amount          *big.Int  `json:"amount"`
	Timestamp       time.Time `json:"timestamp"`
}

type AssignRoleRequest struct {
	Principal string `json:"principal"`
	Role      string `json:"role"`
}

type RegisteredUsersResponse struct {
	Users []RegisteredUser `json:"users"`
}

// ProfileResponse carries an optional profile; Profile is nil when the
// principal never saved one.
type ProfileResponse struct {
	Profile *Profile `json:"profile,omitempty"`
}

type RoleResponse struct {
	Role string `json:"role"`
}

// PrincipalRequest names a principal. For balance and history queries a
// nil Principal means the caller.
type PrincipalRequest struct {
	Principal *string `json:"principal,omitempty"`
}

type UserProfileRequest struct {
	Principal string `json:"principal"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type BalanceResponse struct {
	Balance *big.Int `json:"balance"`
}

type IsAdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

type MintRequest struct {
	Recipient string   `json:"recipient"`
	Amount    *big.Int `json:"amount"`
}

type TransferRequest struct {
	Recipient string   `json:"recipient"`
	Amount    *big.Int `json:"amount"`
}

type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type SaveProfileRequest struct {
	Profile Profile `json:"profile"`
}

type WalletDetailsRequest struct {
	Principal string `json:"principal"`
}

type WalletDetailsResponse struct {
	Principal string   `json:"principal"`
	Profile   Profile  `json:"profile"`
	Balance   *big.Int `json:"balance"`
}

type StatsResponse struct {
	RegisteredUsers int      `json:"registeredUsers"`
	Transactions    int      `json:"transactions"`
	Supply          *big.Int `json:"supply"`
}

type ExportResponse struct {
	Key          string `json:"key"`
	Transactions int    `json:"transactions"`
}
