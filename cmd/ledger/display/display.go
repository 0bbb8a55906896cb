// Package display is the stdout pretty-printer §1 names as an external
// collaborator of the core protocol: colorized rendering of the `balance`
// and `blockchain` commands and of connection-status lines.
package display

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

var (
	out        io.Writer = colorable.NewColorableStdout()
	infoColor            = color.New(color.FgCyan)
	warnColor            = color.New(color.FgYellow)
	headerColor          = color.New(color.FgGreen, color.Bold)
)

// Info prints an informational line.
func Info(format string, args ...interface{}) {
	infoColor.Fprintf(out, format+"\n", args...)
}

// Warn prints a user-facing warning, used for malformed command input (§6,
// §7 "user input errors ... reported to the user, prompt repeats").
func Warn(format string, args ...interface{}) {
	warnColor.Fprintf(out, format+"\n", args...)
}

// PrintBalances renders every (id, balance) pair, sorted by id for
// deterministic output across runs — the `balance` command of §6, grounded
// on balance_table.rs::print_table.
func PrintBalances(balances map[types.ParticipantID]int64) {
	headerColor.Fprintln(out, "Balance Table:")
	ids := make([]types.ParticipantID, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(out, "%d: $%d\n", id, balances[id])
	}
}

// PrintBlockchain renders every block's index, transaction, and hash
// pointer — the `blockchain` command of §6, grounded on
// blockchain.rs::print_blockchain.
func PrintBlockchain(blocks []types.Block) {
	headerColor.Fprintln(out, "Blockchain:")
	for i, block := range blocks {
		fmt.Fprintf(out, "Block %d: Operation: %s, Hash Pointer: %s\n",
			i, block.Transaction.OperationString(), block.HashPointer)
	}
}
