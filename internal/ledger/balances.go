package ledger

import (
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/workcredits/internal/common"
)

// balances holds one non-negative balance per principal. Absent entries
// read as zero. Values are never shared outside the store.
type balances struct {
	m map[Principal]*big.Int
}

func newBalances() *balances {
	return &balances{m: make(map[Principal]*big.Int)}
}

func (b *balances) balance(p Principal) *big.Int {
	return cloneInt(b.m[p])
}

func (b *balances) credit(p Principal, amount *big.Int) error {
	if !positive(amount) {
		return common.ErrInvalidAmount
	}
	cur, ok := b.m[p]
	if !ok {
		cur = new(big.Int)
		b.m[p] = cur
	}
	cur.Add(cur, amount)
	return nil
}

func (b *balances) checkDebit(p Principal, amount *big.Int) error {
	if !positive(amount) {
		return common.ErrInvalidAmount
	}
	if cur := b.m[p]; cur == nil || cur.Cmp(amount) < 0 {
		return fmt.Errorf("%w: balance %s, requested %s", common.ErrInsufficientBalance, b.balance(p), amount)
	}
	return nil
}

func (b *balances) debit(p Principal, amount *big.Int) error {
	if err := b.checkDebit(p, amount); err != nil {
		return err
	}
	cur := b.m[p]
	cur.Sub(cur, amount)
	return nil
}

// move debits from and credits to as one step: either both happen or
// neither does.
func (b *balances) move(from, to Principal, amount *big.Int) error {
	if err := b.checkDebit(from, amount); err != nil {
		return err
	}
	if err := b.debit(from, amount); err != nil {
		return err
	}
	if err := b.credit(to, amount); err != nil {
		_ = b.credit(from, amount)
		return err
	}
	return nil
}

func (b *balances) total() *big.Int {
	sum := new(big.Int)
	for _, v := range b.m {
		sum.Add(sum, v)
	}
	return sum
}
