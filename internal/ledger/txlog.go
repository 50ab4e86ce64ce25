package ledger

import "time"

// txlog is the append-only transaction sequence. Ids start at 1 and are
// handed out by next; an id is only consumed once push stores the record.
type txlog struct {
	entries []Transaction
	last    time.Time
}

func newTxlog() *txlog {
	return &txlog{}
}

func (l *txlog) nextID() uint64 {
	return uint64(len(l.entries)) + 1
}

// next finalises rec with the next id and a commit timestamp that never
// goes backwards, without storing it. Timestamps are kept in UTC at
// microsecond precision so they survive a round trip through the journal.
func (l *txlog) next(rec Transaction, now time.Time) Transaction {
	rec.ID = l.nextID()
	now = now.UTC().Truncate(time.Microsecond)
	if now.Before(l.last) {
		now = l.last
	}
	rec.Timestamp = now
	return rec
}

func (l *txlog) push(tx Transaction) {
	l.entries = append(l.entries, tx.clone())
	l.last = tx.Timestamp
}

func (l *txlog) len() int {
	return len(l.entries)
}

func (l *txlog) all() []Transaction {
	return cloneTransactions(l.entries)
}

func (l *txlog) byParticipant(p Principal) []Transaction {
	out := []Transaction{}
	for _, t := range l.entries {
		if t.Involves(p) {
			out = append(out, t.clone())
		}
	}
	return out
}
