package core

import (
	"time"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/definition"
	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// Default dial/accept timeouts, used by DefaultConfiguration. Generous
// enough for a loopback or LAN setup phase without hanging a CLI operator
// forever on an address that will never answer.
const (
	defaultDialTimeout   = 5 * time.Second
	defaultAcceptTimeout = 30 * time.Second
)

// BaseConfiguration is the teacher's "sane defaults, override what you
// need" configuration struct (pkg/mcast.BaseConfiguration), grounded on
// its field set: participant identity, a logger, the protocol floor, and
// transport timeouts.
type BaseConfiguration struct {
	ParticipantID types.ParticipantID
	Logger        types.Logger

	// MinProtocolVersion is the floor this peer enforces against a
	// remote's advertised protocol version (types.CompatibleVersionAgainst).
	MinProtocolVersion string

	// DialTimeout bounds TCPTransport.Connect; AcceptTimeout bounds how
	// long TCPTransport.Listen waits for the one connection it accepts.
	DialTimeout   time.Duration
	AcceptTimeout time.Duration
}

// DefaultConfiguration returns a BaseConfiguration for id with a fresh
// DefaultLogger, this build's MinProtocolVersion, and the default dial/
// accept timeouts — the same shape as the teacher's
// mcast.DefaultConfiguration constructor.
func DefaultConfiguration(id types.ParticipantID) *BaseConfiguration {
	return &BaseConfiguration{
		ParticipantID:      id,
		Logger:             definition.NewDefaultLogger(),
		MinProtocolVersion: types.MinProtocolVersion,
		DialTimeout:        defaultDialTimeout,
		AcceptTimeout:      defaultAcceptTimeout,
	}
}
