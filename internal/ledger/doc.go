// Package ledger implements the work-credits ledger engine.
//
// The Engine owns three stores: the account directory (roles and profiles),
// the balance store (non-negative, unbounded integer balances) and the
// transaction log (append-only, gap-free increasing ids). Every mutation goes
// through the Engine, which checks authorization and validation under a
// single writer lock and applies the balance change together with its log
// entry. The balance store is a materialised view of the log: Audit and
// Restore rebuild it from the log alone.
//
// The caller principal is taken from the context (see package identity);
// the engine never sees transport credentials.
//
// Invariants after every committed call:
//   - no balance is negative;
//   - the sum of balances equals the sum of minted amounts;
//   - transaction ids are unique, strictly increasing and gap free;
//   - a transfer never has sender == recipient;
//   - a mint's admin held the admin role when it was committed.
package ledger
