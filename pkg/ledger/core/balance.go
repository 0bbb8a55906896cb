package core

import "github.com/anvil-labs/lamport-ledger/pkg/ledger/types"

// BalanceTable maps a participant id to its signed integer balance (§4.4).
type BalanceTable struct {
	balances map[types.ParticipantID]int64
}

// NewBalanceTable returns an empty table.
func NewBalanceTable() *BalanceTable {
	return &BalanceTable{balances: make(map[types.ParticipantID]int64)}
}

// Seed sets id's balance unconditionally, used at setup (§3 "Initial
// balance for every peer discovered at setup is 10"). Seeding the same id
// twice with the same value is idempotent.
func (b *BalanceTable) Seed(id types.ParticipantID, value int64) {
	b.balances[id] = value
}

// Apply adds delta to id's balance. A no-op if id isn't present — preserved
// source semantics (§3, §9); see scenario E.
func (b *BalanceTable) Apply(id types.ParticipantID, delta int64) {
	if _, ok := b.balances[id]; ok {
		b.balances[id] += delta
	}
}

// ApplyTransaction debits From and credits To by Amount.
func (b *BalanceTable) ApplyTransaction(tx types.Transaction) {
	b.Apply(tx.From, -tx.Amount)
	b.Apply(tx.To, tx.Amount)
}

// Balance returns id's balance and whether it is present.
func (b *BalanceTable) Balance(id types.ParticipantID) (int64, bool) {
	v, ok := b.balances[id]
	return v, ok
}

// Snapshot returns a defensive copy of the full table, for the `balance`
// command and for tests.
func (b *BalanceTable) Snapshot() map[types.ParticipantID]int64 {
	out := make(map[types.ParticipantID]int64, len(b.balances))
	for k, v := range b.balances {
		out[k] = v
	}
	return out
}
