// Package test is the shared integration harness used by package-level
// tests and by fuzzy/, grounded on the teacher's test/testing.go
// (CreateCluster, WaitThisOrTimeout, PrintStackTrace).
package test

import (
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/core"
	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// Cluster is a set of Coordinators fully interconnected over real loopback
// TCP connections — every peer's balance seeded to 10 and N frozen, exactly
// as the CLI's setup phase would leave them, with each Coordinator's event
// loop already running.
type Cluster struct {
	T            *testing.T
	Coordinators []*core.Coordinator
	transports   []*core.TCPTransport
}

// NewCluster builds `size` peers. For every ordered pair (i, j) with i<j,
// peer j listens and peer i connects — one listen/connect pairing per pair,
// same shape as a human operator's CLI setup commands.
func NewCluster(t *testing.T, size int, basePort int) *Cluster {
	t.Helper()

	configs := make([]*core.BaseConfiguration, size)
	transports := make([]*core.TCPTransport, size)
	for i := 0; i < size; i++ {
		configs[i] = core.DefaultConfiguration(types.ParticipantID(i))
		transports[i] = core.NewTCPTransport(configs[i])
	}

	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			address := fmt.Sprintf("127.0.0.1:%d", basePort+i*size+j)
			listenErr := make(chan error, 1)
			go func(j int) {
				listenErr <- transports[j].Listen(types.ParticipantID(i), address)
			}(j)
			time.Sleep(20 * time.Millisecond)
			if err := transports[i].Connect(types.ParticipantID(j), address); err != nil {
				t.Fatalf("peer %d connecting to peer %d: %v", i, j, err)
			}
			if err := <-listenErr; err != nil {
				t.Fatalf("peer %d listening for peer %d: %v", j, i, err)
			}
		}
	}

	coordinators := make([]*core.Coordinator, size)
	for i := 0; i < size; i++ {
		coordinators[i] = core.NewCoordinator(configs[i], transports[i])
		for j := 0; j < size; j++ {
			coordinators[i].SeedBalance(types.ParticipantID(j), 10)
		}
		coordinators[i].Freeze()
	}
	for i := 0; i < size; i++ {
		go coordinators[i].Run()
	}

	return &Cluster{T: t, Coordinators: coordinators, transports: transports}
}

// Shutdown stops every Coordinator and closes every transport.
func (c *Cluster) Shutdown() {
	for _, coordinator := range c.Coordinators {
		coordinator.Stop()
	}
	for _, transport := range c.transports {
		transport.Close()
	}
}

// WaitThisOrTimeout runs cb in its own goroutine and reports whether it
// finished before d elapses.
func WaitThisOrTimeout(cb func(), d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		cb()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// PrintStackTrace dumps every goroutine's stack to the test log, for
// diagnosing a cluster that failed to shut down in time.
func PrintStackTrace(t *testing.T) {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	t.Errorf("%s", buf[:n])
}
