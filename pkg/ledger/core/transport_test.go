package core

import (
	"testing"
	"time"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

func TestTCPTransport_ConnectListenRoundTrip(t *testing.T) {
	a := NewTCPTransport(DefaultConfiguration(1))
	b := NewTCPTransport(DefaultConfiguration(2))
	defer a.Close()
	defer b.Close()

	const address = "127.0.0.1:28991"

	listenErr := make(chan error, 1)
	go func() { listenErr <- b.Listen(1, address) }()
	time.Sleep(50 * time.Millisecond)

	if err := a.Connect(2, address); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := <-listenErr; err != nil {
		t.Fatalf("listen: %v", err)
	}

	if a.PeerCount() != 1 || b.PeerCount() != 1 {
		t.Fatalf("expected one peer on each side, got a=%d b=%d", a.PeerCount(), b.PeerCount())
	}

	envelope := types.NewRequestEnvelope(types.RequestMessage{SenderID: 2, Timestamp: 7})
	if err := a.Send(1, envelope); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case got := <-b.Inbound():
		if got.Kind != types.KindRequest || got.Request == nil || got.Request.Timestamp != 7 {
			t.Fatalf("unexpected envelope received: %#v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound envelope")
	}
}

func TestTCPTransport_SendToUnknownPeerErrors(t *testing.T) {
	transport := NewTCPTransport(DefaultConfiguration(1))
	defer transport.Close()

	err := transport.Send(99, types.NewReplyEnvelope(types.ReplyMessage{SenderID: 1, Timestamp: 1}))
	if err == nil {
		t.Fatal("expected an error sending to an unregistered peer")
	}
}

func TestTCPTransport_PeersSortedAscending(t *testing.T) {
	listenerA := NewTCPTransport(DefaultConfiguration(5))
	defer listenerA.Close()
	listenerB := NewTCPTransport(DefaultConfiguration(1))
	defer listenerB.Close()

	doneA := make(chan struct{})
	go func() {
		listenerA.Listen(5, "127.0.0.1:28992")
		close(doneA)
	}()
	doneB := make(chan struct{})
	go func() {
		listenerB.Listen(1, "127.0.0.1:28993")
		close(doneB)
	}()
	time.Sleep(50 * time.Millisecond)

	dialer := NewTCPTransport(DefaultConfiguration(9))
	defer dialer.Close()
	if err := dialer.Connect(7, "127.0.0.1:28992"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := dialer.Connect(3, "127.0.0.1:28993"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	<-doneA
	<-doneB

	peers := dialer.Peers()
	if len(peers) != 2 || peers[0] != 3 || peers[1] != 7 {
		t.Fatalf("expected [3 7], got %v", peers)
	}
}
