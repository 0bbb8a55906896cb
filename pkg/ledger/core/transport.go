package core

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sort"
	"sync"
	"time"

	plog "github.com/prometheus/common/log"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// maxFrameSize bounds a single inbound frame. A Block is small — a
// transaction plus a hex digest — so this is headroom, not a tuning knob.
const maxFrameSize = 1 << 20 // 1 MiB

// Transport is the bidirectional, message-oriented peer connection pool of
// §4.5. The TCP binding here is one valid realization; the Coordinator only
// depends on this interface.
type Transport interface {
	// Connect opens an outbound connection to address and registers it
	// under id.
	Connect(id types.ParticipantID, address string) error

	// Listen binds address, accepts exactly one connection, and
	// registers it under id (§6 "listen").
	Listen(id types.ParticipantID, address string) error

	// Send serializes and delivers envelope to the named peer,
	// preserving order per peer.
	Send(id types.ParticipantID, envelope types.Envelope) error

	// Inbound delivers every framed message received from any peer, in
	// FIFO order per peer.
	Inbound() <-chan types.Envelope

	// Peers lists the ids of every registered peer, in ascending order.
	Peers() []types.ParticipantID

	// PeerCount is len(Peers()).
	PeerCount() int

	// Close tears down every peer connection.
	Close()
}

// peerConn pairs a connection with its own write lock, so a slow write to
// one peer cannot block a send to another (unlike sharing one table-wide
// lock across every Send call).
type peerConn struct {
	conn net.Conn
	mu   sync.Mutex
}

// TCPTransport is the length-prefixed-JSON-over-TCP realization of
// Transport. Framing is a 4-byte big-endian length prefix followed by the
// JSON payload — the fix §4.5/§9 mandates in place of the source's raw
// 512-byte fixed-buffer reads, which corrupt any message crossing a buffer
// boundary or carrying a Block.
type TCPTransport struct {
	log types.Logger

	dialTimeout   time.Duration
	acceptTimeout time.Duration

	mutex sync.Mutex
	peers map[types.ParticipantID]*peerConn

	inbound chan types.Envelope
	closed  bool
}

// NewTCPTransport returns a transport with no peers registered yet, using
// config's logger and dial/accept timeouts (§10.3).
func NewTCPTransport(config *BaseConfiguration) *TCPTransport {
	return &TCPTransport{
		log:           config.Logger,
		dialTimeout:   config.DialTimeout,
		acceptTimeout: config.AcceptTimeout,
		peers:         make(map[types.ParticipantID]*peerConn),
		inbound:       make(chan types.Envelope, 64),
	}
}

// Connect implements Transport. The dial is bounded by dialTimeout so a
// peer that never answers doesn't hang the setup phase forever.
func (t *TCPTransport) Connect(id types.ParticipantID, address string) error {
	conn, err := net.DialTimeout("tcp", address, t.dialTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", address, err)
	}
	t.register(id, conn)
	t.log.Infof("connected to peer %d at %s", id, address)
	return nil
}

// Listen implements Transport. It accepts exactly one connection and
// closes the listener, per §6's "listen <peer_id> <port>". The accept is
// bounded by acceptTimeout so a peer that never connects doesn't hang the
// setup phase forever.
func (t *TCPTransport) Listen(id types.ParticipantID, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}
	if tcpListener, ok := listener.(*net.TCPListener); ok {
		tcpListener.SetDeadline(time.Now().Add(t.acceptTimeout))
	}
	conn, err := listener.Accept()
	listener.Close()
	if err != nil {
		return fmt.Errorf("accept on %s: %w", address, err)
	}
	t.register(id, conn)
	t.log.Infof("accepted peer %d at %s", id, address)
	return nil
}

func (t *TCPTransport) register(id types.ParticipantID, conn net.Conn) {
	pc := &peerConn{conn: conn}
	t.mutex.Lock()
	t.peers[id] = pc
	t.mutex.Unlock()
	go t.read(id, conn)
}

// read is the per-connection reader goroutine: one per peer, all
// multiplexing into the single inbound channel (§5, §12 "Per-connection
// reader threads that feed one channel").
func (t *TCPTransport) read(id types.ParticipantID, conn net.Conn) {
	reader := bufio.NewReader(conn)
	var lengthBuf [4]byte
	for {
		if _, err := io.ReadFull(reader, lengthBuf[:]); err != nil {
			if err != io.EOF {
				plog.Errorf("failed reading frame length from peer %d: %v", id, err)
			}
			return
		}
		n := binary.BigEndian.Uint32(lengthBuf[:])
		if n == 0 || n > maxFrameSize {
			plog.Errorf("rejecting oversized frame (%d bytes) from peer %d", n, id)
			return
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(reader, payload); err != nil {
			plog.Errorf("failed reading frame body from peer %d: %v", id, err)
			return
		}

		var envelope types.Envelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			// Deserialization failure is fatal for this reader (§7):
			// the run model assumes honest peers, so there's no
			// recovery short of abandoning the connection.
			plog.Errorf("failed unmarshalling envelope from peer %d: %v", id, err)
			return
		}
		if err := envelope.Validate(); err != nil {
			plog.Errorf("malformed envelope from peer %d: %v", id, err)
			return
		}
		t.inbound <- envelope
	}
}

// Send implements Transport.
func (t *TCPTransport) Send(id types.ParticipantID, envelope types.Envelope) error {
	t.mutex.Lock()
	pc, ok := t.peers[id]
	t.mutex.Unlock()
	if !ok {
		t.log.Warnf("dropping message to unknown peer %d", id)
		return fmt.Errorf("unknown peer %d", id)
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		plog.Errorf("failed marshalling envelope for peer %d: %v", id, err)
		return err
	}

	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if _, err := pc.conn.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("write frame length to peer %d: %w", id, err)
	}
	if _, err := pc.conn.Write(payload); err != nil {
		return fmt.Errorf("write frame body to peer %d: %w", id, err)
	}
	return nil
}

// Inbound implements Transport.
func (t *TCPTransport) Inbound() <-chan types.Envelope {
	return t.inbound
}

// Peers implements Transport.
func (t *TCPTransport) Peers() []types.ParticipantID {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	ids := make([]types.ParticipantID, 0, len(t.peers))
	for id := range t.peers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PeerCount implements Transport.
func (t *TCPTransport) PeerCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.peers)
}

// Close implements Transport. Reader goroutines are not joined — clean
// shutdown is a non-goal (§5 "Resource lifecycle"); closing every
// connection makes their blocking reads return and they exit on their own.
func (t *TCPTransport) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, pc := range t.peers {
		pc.conn.Close()
	}
}
