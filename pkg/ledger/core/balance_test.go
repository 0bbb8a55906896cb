package core

import (
	"testing"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

func TestBalanceTable_SeedIsIdempotent(t *testing.T) {
	b := NewBalanceTable()
	b.Seed(1, 10)
	b.Seed(1, 10)
	got, ok := b.Balance(1)
	if !ok || got != 10 {
		t.Fatalf("expected balance 10, got %d (present=%v)", got, ok)
	}
}

func TestBalanceTable_ApplyOnKnownID(t *testing.T) {
	b := NewBalanceTable()
	b.Seed(1, 10)
	b.Apply(1, -3)
	got, _ := b.Balance(1)
	if got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestBalanceTable_ApplyOnUnknownIDIsNoop(t *testing.T) {
	b := NewBalanceTable()
	b.Seed(1, 10)
	b.Seed(2, 10)

	// Scenario E: a block references from=9, which was never seeded.
	b.ApplyTransaction(types.Transaction{From: 9, To: 1, Amount: 5})

	snap := b.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected only the two seeded ids to remain, got %v", snap)
	}
	if snap[1] != 15 {
		t.Fatalf("the unknown id's debit must be dropped while the known recipient is still credited, got %v", snap)
	}
	if _, ok := b.Balance(9); ok {
		t.Fatal("unknown id must not be implicitly created")
	}
}

func TestBalanceTable_ApplyTransactionCreditsAndDebits(t *testing.T) {
	b := NewBalanceTable()
	b.Seed(1, 10)
	b.Seed(2, 10)
	b.ApplyTransaction(types.Transaction{From: 1, To: 2, Amount: 3})

	from, _ := b.Balance(1)
	to, _ := b.Balance(2)
	if from != 7 {
		t.Fatalf("expected sender balance 7, got %d", from)
	}
	if to != 13 {
		t.Fatalf("expected recipient balance 13, got %d", to)
	}
}

func TestBalanceTable_NegativeAmountReversesCreditDebit(t *testing.T) {
	b := NewBalanceTable()
	b.Seed(1, 10)
	b.Seed(2, 10)
	b.ApplyTransaction(types.Transaction{From: 1, To: 2, Amount: -5})

	from, _ := b.Balance(1)
	to, _ := b.Balance(2)
	if from != 15 {
		t.Fatalf("expected sender balance 15, got %d", from)
	}
	if to != 5 {
		t.Fatalf("expected recipient balance 5, got %d", to)
	}
}
