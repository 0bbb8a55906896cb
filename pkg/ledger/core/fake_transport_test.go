package core

import (
	"sync"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// fakeTransport is an in-memory Transport double used to drive the
// Coordinator's state machine deterministically, without real sockets —
// the same role the teacher's test.TestInvoker plays for its Peer tests.
type fakeTransport struct {
	peers []types.ParticipantID

	inbound chan types.Envelope

	mu   sync.Mutex
	sent []sentEnvelope
}

type sentEnvelope struct {
	to       types.ParticipantID
	envelope types.Envelope
}

func newFakeTransport(peers ...types.ParticipantID) *fakeTransport {
	return &fakeTransport{peers: peers, inbound: make(chan types.Envelope, 16)}
}

func (f *fakeTransport) Connect(types.ParticipantID, string) error { return nil }
func (f *fakeTransport) Listen(types.ParticipantID, string) error  { return nil }

func (f *fakeTransport) Send(id types.ParticipantID, envelope types.Envelope) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentEnvelope{to: id, envelope: envelope})
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Inbound() <-chan types.Envelope { return f.inbound }

func (f *fakeTransport) Peers() []types.ParticipantID { return f.peers }

func (f *fakeTransport) PeerCount() int { return len(f.peers) }

func (f *fakeTransport) Close() {}

func (f *fakeTransport) sentOf(kind types.Kind) []sentEnvelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentEnvelope
	for _, s := range f.sent {
		if s.envelope.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
