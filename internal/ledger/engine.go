package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/common"
	"github.com/dmitrijs2005/workcredits/internal/identity"
	"github.com/dmitrijs2005/workcredits/internal/logging"
)

const (
	opMint        = "mint"
	opTransfer    = "transfer"
	opAssignRole  = "assign_role"
	opSaveProfile = "save_profile"
	opSeedAdmin   = "seed_admin"
)

// Engine owns the directory, the balance store and the transaction log.
// Mutations are serialised by a single writer lock; reads take the read
// lock and return copies, so callers never observe a half-applied change.
type Engine struct {
	mu     sync.RWMutex
	dir    *directory
	bal    *balances
	log    *txlog
	minted *big.Int

	// halted is set when the journal may hold a write the engine did not
	// apply; all further writes are refused until the engine is restored.
	halted error

	journal  Journal
	recorder Recorder
	logger   logging.Logger
	now      func() time.Time
}

type Option func(*Engine)

// WithJournal makes every mutation durable before it is applied in memory.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithClock overrides the time source used for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an empty ledger: no roles, no profiles, no balances.
func New(opts ...Option) *Engine {
	e := &Engine{
		dir:      newDirectory(),
		bal:      newBalances(),
		log:      newTxlog(),
		minted:   new(big.Int),
		recorder: nopRecorder{},
		logger:   logging.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) caller(ctx context.Context) (Principal, error) {
	p, ok := identity.FromContext(ctx)
	if !ok {
		return "", common.ErrUnauthenticated
	}
	return Principal(p), nil
}

// writable must be called with the write lock held.
func (e *Engine) writable() error {
	if e.halted != nil {
		return fmt.Errorf("%w: %v", common.ErrLedgerHalted, e.halted)
	}
	return nil
}

func (e *Engine) reject(ctx context.Context, op string, caller Principal, err error) error {
	e.recorder.Rejected(op, err)
	e.logger.Warn(ctx, "ledger call rejected", "op", op, "caller", caller, "error", err)
	return err
}

// Mint creates amount new credits in recipient's wallet. Only admins may
// mint.
func (e *Engine) Mint(ctx context.Context, recipient Principal, amount *big.Int) (Transaction, error) {
	caller, err := e.caller(ctx)
	if err != nil {
		return Transaction{}, e.reject(ctx, opMint, "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writable(); err != nil {
		return Transaction{}, e.reject(ctx, opMint, caller, err)
	}
	if e.dir.role(caller) != RoleAdmin {
		return Transaction{}, e.reject(ctx, opMint, caller,
			fmt.Errorf("%w: only admins can mint credits", common.ErrUnauthorized))
	}
	if !positive(amount) {
		return Transaction{}, e.reject(ctx, opMint, caller, common.ErrInvalidAmount)
	}
	if recipient.IsZero() {
		return Transaction{}, e.reject(ctx, opMint, caller, common.ErrInvalidPrincipal)
	}

	tx := e.log.next(Transaction{
		Type:      TypeMint,
		Admin:     caller,
		Recipient: recipient,
		Amount:    cloneInt(amount),
	}, e.now())

	return e.commit(ctx, opMint, caller, tx)
}

// Transfer moves amount credits from the caller to recipient.
func (e *Engine) Transfer(ctx context.Context, recipient Principal, amount *big.Int) (Transaction, error) {
	caller, err := e.caller(ctx)
	if err != nil {
		return Transaction{}, e.reject(ctx, opTransfer, "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writable(); err != nil {
		return Transaction{}, e.reject(ctx, opTransfer, caller, err)
	}
	if recipient == caller {
		return Transaction{}, e.reject(ctx, opTransfer, caller, common.ErrSelfTransfer)
	}
	if !positive(amount) {
		return Transaction{}, e.reject(ctx, opTransfer, caller, common.ErrInvalidAmount)
	}
	if recipient.IsZero() {
		return Transaction{}, e.reject(ctx, opTransfer, caller, common.ErrInvalidPrincipal)
	}
	if err := e.bal.checkDebit(caller, amount); err != nil {
		return Transaction{}, e.reject(ctx, opTransfer, caller, err)
	}

	tx := e.log.next(Transaction{
		Type:      TypeTransfer,
		Sender:    caller,
		Recipient: recipient,
		Amount:    cloneInt(amount),
	}, e.now())

	return e.commit(ctx, opTransfer, caller, tx)
}

// commit persists a validated transaction, applies it to the balances and
// appends it to the log. Must be called with the write lock held.
func (e *Engine) commit(ctx context.Context, op string, caller Principal, tx Transaction) (Transaction, error) {
	if e.journal != nil {
		if err := e.journal.AppendTransaction(ctx, tx); err != nil {
			if errors.Is(err, common.ErrJournalUncertain) || errors.Is(err, common.ErrJournalConflict) {
				e.halted = fmt.Errorf("transaction %d: %w", tx.ID, err)
				e.logger.Error(ctx, "journal out of step with memory, refusing writes until restore", "id", tx.ID, "error", err)
				return Transaction{}, e.reject(ctx, op, caller, e.writable())
			}
			return Transaction{}, e.reject(ctx, op, caller, fmt.Errorf("journal append: %w", err))
		}
	}

	if err := apply(e.bal, e.minted, tx); err != nil {
		// validation ran under the same lock, so this is a bug rather than
		// a caller error
		e.logger.Error(ctx, "journaled transaction failed to apply", "id", tx.ID, "error", err)
		return Transaction{}, fmt.Errorf("%w: apply transaction %d: %v", common.ErrInternal, tx.ID, err)
	}
	e.log.push(tx)

	e.recorder.Committed(tx.clone(), cloneInt(e.minted))
	e.logger.Info(ctx, "transaction committed",
		"id", tx.ID,
		"type", tx.Type,
		"caller", caller,
		"recipient", tx.Recipient,
		"amount", tx.Amount.String(),
	)
	return tx.clone(), nil
}

// apply adds tx's effect to b and, for mints, to the minted total.
func apply(b *balances, minted *big.Int, tx Transaction) error {
	switch tx.Type {
	case TypeMint:
		if err := b.credit(tx.Recipient, tx.Amount); err != nil {
			return err
		}
		minted.Add(minted, tx.Amount)
		return nil
	case TypeTransfer:
		if tx.Sender == tx.Recipient {
			return common.ErrSelfTransfer
		}
		return b.move(tx.Sender, tx.Recipient, tx.Amount)
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}

// AssignRole sets target's role. Only admins may assign roles, including
// to themselves.
func (e *Engine) AssignRole(ctx context.Context, target Principal, role Role) error {
	caller, err := e.caller(ctx)
	if err != nil {
		return e.reject(ctx, opAssignRole, "", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writable(); err != nil {
		return e.reject(ctx, opAssignRole, caller, err)
	}
	if err := e.dir.checkAssign(caller, target, role); err != nil {
		return e.reject(ctx, opAssignRole, caller, err)
	}
	if e.journal != nil {
		if err := e.journal.SaveRole(ctx, target, role); err != nil {
			return e.reject(ctx, opAssignRole, caller, fmt.Errorf("journal save role: %w", err))
		}
	}
	if err := e.dir.assignRole(caller, target, role); err != nil {
		return e.reject(ctx, opAssignRole, caller, err)
	}

	e.logger.Info(ctx, "role assigned", "caller", caller, "target", target, "role", role)
	return nil
}

// SeedAdmins grants the admin role to each principal that does not hold it
// yet. It bypasses the caller check and is meant for process startup only.
func (e *Engine) SeedAdmins(ctx context.Context, principals ...Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writable(); err != nil {
		return e.reject(ctx, opSeedAdmin, "", err)
	}
	for _, p := range principals {
		if p.IsZero() {
			return e.reject(ctx, opSeedAdmin, "", common.ErrInvalidPrincipal)
		}
		if e.dir.role(p) == RoleAdmin {
			continue
		}
		if e.journal != nil {
			if err := e.journal.SaveRole(ctx, p, RoleAdmin); err != nil {
				return e.reject(ctx, opSeedAdmin, "", fmt.Errorf("journal save role: %w", err))
			}
		}
		e.dir.setRole(p, RoleAdmin)
		e.logger.Info(ctx, "bootstrap admin seeded", "principal", p)
	}
	return nil
}

// CallerRole returns the caller's role, guest when none was assigned.
func (e *Engine) CallerRole(ctx context.Context) (Role, error) {
	caller, err := e.caller(ctx)
	if err != nil {
		return "", err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir.role(caller), nil
}

func (e *Engine) IsCallerAdmin(ctx context.Context) (bool, error) {
	role, err := e.CallerRole(ctx)
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

// RoleOf returns p's role without requiring a caller.
func (e *Engine) RoleOf(p Principal) Role {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir.role(p)
}

// CallerProfile returns the caller's profile; ok is false when it has not
// saved one.
func (e *Engine) CallerProfile(ctx context.Context) (prof Profile, ok bool, err error) {
	caller, err := e.caller(ctx)
	if err != nil {
		return Profile{}, false, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	prof, ok = e.dir.profile(caller)
	return prof, ok, nil
}

// UserProfile returns any principal's profile. Profiles are public.
func (e *Engine) UserProfile(ctx context.Context, p Principal) (Profile, bool, error) {
	if p.IsZero() {
		return Profile{}, false, common.ErrInvalidPrincipal
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	prof, ok := e.dir.profile(p)
	return prof, ok, nil
}

// SaveCallerProfile upserts the caller's own profile. The first save
// registers the caller.
func (e *Engine) SaveCallerProfile(ctx context.Context, prof Profile) error {
	caller, err := e.caller(ctx)
	if err != nil {
		return e.reject(ctx, opSaveProfile, "", err)
	}
	prof, err = normalizeProfile(prof)
	if err != nil {
		return e.reject(ctx, opSaveProfile, caller, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.writable(); err != nil {
		return e.reject(ctx, opSaveProfile, caller, err)
	}
	if e.journal != nil {
		if err := e.journal.SaveProfile(ctx, caller, prof); err != nil {
			return e.reject(ctx, opSaveProfile, caller, fmt.Errorf("journal save profile: %w", err))
		}
	}
	e.dir.saveProfile(caller, prof)

	e.logger.Info(ctx, "profile saved", "caller", caller)
	return nil
}

// RegisteredUsers lists every principal with a saved profile in the order
// they first saved it.
func (e *Engine) RegisteredUsers(ctx context.Context) []RegisteredUser {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dir.registered()
}

// WalletBalance returns the balance of p, or of the caller when p is nil.
// Unknown principals have a zero balance.
func (e *Engine) WalletBalance(ctx context.Context, p *Principal) (*big.Int, error) {
	target, err := e.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bal.balance(target), nil
}

// TransactionHistory returns the transactions involving p, or the caller
// when p is nil, in commit order.
func (e *Engine) TransactionHistory(ctx context.Context, p *Principal) ([]Transaction, error) {
	target, err := e.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.log.byParticipant(target), nil
}

func (e *Engine) resolve(ctx context.Context, p *Principal) (Principal, error) {
	if p == nil {
		return e.caller(ctx)
	}
	if p.IsZero() {
		return "", common.ErrInvalidPrincipal
	}
	return *p, nil
}

// TransactionLedger returns every transaction in commit order.
func (e *Engine) TransactionLedger(ctx context.Context) []Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.log.all()
}

// WalletDetails returns a registered principal's profile together with its
// balance, both read from the same snapshot.
func (e *Engine) WalletDetails(ctx context.Context, p Principal) (Profile, *big.Int, error) {
	if p.IsZero() {
		return Profile{}, nil, common.ErrInvalidPrincipal
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	prof, ok := e.dir.profile(p)
	if !ok {
		return Profile{}, nil, fmt.Errorf("%w: no profile for %s", common.ErrNotFound, p)
	}
	return prof, e.bal.balance(p), nil
}

func (e *Engine) Stats(ctx context.Context) Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		RegisteredUsers: len(e.dir.order),
		Transactions:    e.log.len(),
		Supply:          cloneInt(e.minted),
	}
}
