// Package types holds the data model and wire protocol shared by the core
// package and its callers: participant identifiers, transactions, blocks,
// and the Logger interface components depend on instead of a concrete
// logging library.
package types

import "fmt"

// ParticipantID identifies a peer. Assigned at startup (the CLI argument,
// or a setup command's <id>) and never reused or reassigned mid-run (§3).
type ParticipantID uint64

// Transaction is the (from, to, amount) tuple of §3. Amount may be negative;
// semantics are always "credit To by Amount, debit From by Amount".
type Transaction struct {
	From   ParticipantID `json:"from"`
	To     ParticipantID `json:"to"`
	Amount int64         `json:"amount"`
}

// OperationString renders the transaction the way the hash pointer's
// preimage requires: "{from}->{to} amt {amount}".
func (t Transaction) OperationString() string {
	return fmt.Sprintf("%d->%d amt %d", t.From, t.To, t.Amount)
}

// Block binds a Transaction to the hash pointer chaining it to its
// predecessor (§3). HashPointer is a lowercase hex SHA-256 digest.
type Block struct {
	Transaction Transaction `json:"transaction"`
	HashPointer string      `json:"hash_pointer"`
}

// Logger is the leveled logging surface every component depends on. Kept as
// an interface, the way the teacher's types package does it, so a default
// logrus-backed implementation and a test double are interchangeable.
type Logger interface {
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	ToggleDebug(value bool) bool
}
