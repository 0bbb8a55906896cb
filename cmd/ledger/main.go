// Command ledger runs one participant in a Lamport-clock replicated ledger
// (§6). It is invoked with a single positional argument, the participant
// id, then drives an interactive setup phase (connect/listen/done)
// followed by a run phase (send/balance/blockchain).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/anvil-labs/lamport-ledger/cmd/ledger/display"
	"github.com/anvil-labs/lamport-ledger/pkg/ledger/core"
	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

var participantID = kingpin.Arg("client-id", "This peer's participant id.").Required().Uint64()

func main() {
	kingpin.CommandLine.Help = "A peer in a Lamport-clock replicated ledger."
	// kingpin.Parse exits 1 with a usage message on stderr if the
	// argument is missing or not a valid uint64 (§6 "Exit code 1 on
	// missing or non-numeric argument").
	kingpin.Parse()

	selfID := types.ParticipantID(*participantID)
	config := core.DefaultConfiguration(selfID)

	transport := core.NewTCPTransport(config)
	coordinator := core.NewCoordinator(config, transport)

	// This peer's own balance starts at 10, like every registered peer's.
	coordinator.SeedBalance(selfID, 10)
	runSetup(coordinator, transport)
	go coordinator.Run()
	runLoop(coordinator)
}

// runSetup reads connect/listen/done commands from stdin (§6 "Interactive
// setup commands"). It runs entirely before the Coordinator's event loop
// starts, so there is no concurrent mutation to guard against.
func runSetup(coordinator *core.Coordinator, transport *core.TCPTransport) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter command (connect <id> <port> / listen <id> <port> / done): ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "done") {
			break
		}

		parts := strings.Fields(line)
		if len(parts) != 3 {
			display.Warn("Invalid command. Please enter a command in the format: <action> <id> <port>")
			continue
		}

		peerID, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			display.Warn("Invalid peer ID. Please enter a valid number.")
			continue
		}
		port, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil {
			display.Warn("Invalid port. Please enter a valid number.")
			continue
		}
		address := fmt.Sprintf("127.0.0.1:%d", port)
		id := types.ParticipantID(peerID)

		var opErr error
		switch strings.ToLower(parts[0]) {
		case "connect":
			opErr = transport.Connect(id, address)
		case "listen":
			opErr = transport.Listen(id, address)
		default:
			display.Warn("Unknown command. Use 'connect' or 'listen'.")
			continue
		}
		if opErr != nil {
			display.Warn("%v", opErr)
			continue
		}

		// The balance seed and the peer registration are one CLI step,
		// per original_source/src/client.rs::setup_connections (§12).
		coordinator.SeedBalance(id, 10)
	}

	coordinator.Freeze()
	display.Info("%d Connected clients", transport.PeerCount())
}

// runLoop reads send/balance/blockchain commands from stdin (§6
// "Interactive run commands").
func runLoop(coordinator *core.Coordinator) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter command (send <recipient_id> <amt> / balance / blockchain): ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.EqualFold(line, "balance"):
			display.PrintBalances(coordinator.Balances())
			continue
		case strings.EqualFold(line, "blockchain"):
			display.PrintBlockchain(coordinator.Blockchain())
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 3 || !strings.EqualFold(parts[0], "send") {
			display.Warn("Invalid command. Please enter a command in the format: send <recipient_id> <amt>")
			continue
		}

		recipient, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			display.Warn("Invalid client ID. Please enter a valid number.")
			continue
		}
		amount, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			display.Warn("Invalid amt. Please enter a valid number.")
			continue
		}

		if err := coordinator.Submit(types.ParticipantID(recipient), amount); err != nil {
			display.Warn("%v", err)
		}
	}
}
