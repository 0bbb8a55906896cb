package core

import (
	"errors"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// ErrRequestInFlight is returned by Submit when a local request is already
// outstanding. §9 "Transaction staging is not re-entrant" asks
// implementations to queue or refuse overlapping local submits rather than
// silently overwrite the staged transaction the way the source does.
var ErrRequestInFlight = errors.New("a local request is already in flight")

// Coordinator is the mutual-exclusion state machine of §4.6. It exclusively
// owns the clock, queue, chain, balance table, and transport for the
// process lifetime (§3 "Ownership and lifecycle") and mutates them only
// from the single goroutine running Run. There is no shared mutex because
// there is no second mutator — the realization §9 recommends over the
// source's single-mutex-guarded-from-two-threads design.
type Coordinator struct {
	selfID types.ParticipantID
	log    types.Logger
	config *BaseConfiguration

	transport Transport
	clock     *LamportClock
	queue     *RequestQueue
	chain     *HashChain
	balances  *BalanceTable

	n int // peers excluding self, frozen by Freeze (§6 "done", §9 open question)

	requesting bool
	replyCount int

	submit       chan submitRequest
	balanceQuery chan chan map[types.ParticipantID]int64
	chainQuery   chan chan []types.Block

	done    chan struct{}
	stopped chan struct{}
}

type submitRequest struct {
	to     types.ParticipantID
	amount int64
	result chan error
}

// NewCoordinator builds a Coordinator over the given transport. Call
// SeedBalance and Freeze during setup, then start Run in its own goroutine.
func NewCoordinator(config *BaseConfiguration, transport Transport) *Coordinator {
	return &Coordinator{
		selfID:       config.ParticipantID,
		log:          config.Logger,
		config:       config,
		transport:    transport,
		clock:        NewLamportClock(),
		queue:        NewRequestQueue(),
		chain:        NewHashChain(),
		balances:     NewBalanceTable(),
		submit:       make(chan submitRequest),
		balanceQuery: make(chan chan map[types.ParticipantID]int64),
		chainQuery:   make(chan chan []types.Block),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

// SeedBalance sets a newly registered peer's opening balance (§3, §6
// "connect"/"listen"). Must be called before Run starts — setup is
// single-threaded by construction, same as the source's setup phase.
func (c *Coordinator) SeedBalance(id types.ParticipantID, value int64) {
	c.balances.Seed(id, value)
}

// Freeze fixes N, the count of peers excluding self, at the end of setup
// (§6 "done"). Must be called before Run starts.
func (c *Coordinator) Freeze() {
	c.n = c.transport.PeerCount()
}

// Run is the Coordinator's event loop (§5 "one coordinator thread"). It
// must be started in its own goroutine and runs until Stop is called.
func (c *Coordinator) Run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.done:
			return
		case req := <-c.submit:
			req.result <- c.handleSubmit(req.to, req.amount)
		case reply := <-c.balanceQuery:
			reply <- c.balances.Snapshot()
		case reply := <-c.chainQuery:
			reply <- c.chain.Blocks()
		case envelope, ok := <-c.transport.Inbound():
			if !ok {
				return
			}
			c.handleEnvelope(envelope)
		}
	}
}

// Stop signals Run to return and waits for it to exit.
func (c *Coordinator) Stop() {
	close(c.done)
	<-c.stopped
}

// Submit issues E1: a local request to append (to, amount) as the next
// transaction. It blocks until the request has been accepted into the
// local queue and broadcast (not until it commits — committing can take an
// arbitrary amount of time waiting on other peers).
func (c *Coordinator) Submit(to types.ParticipantID, amount int64) error {
	result := make(chan error, 1)
	c.submit <- submitRequest{to: to, amount: amount, result: result}
	return <-result
}

// Balances returns a point-in-time snapshot of the balance table, for the
// `balance` command (§6). Routed through the event loop so a reader never
// races the single mutator goroutine.
func (c *Coordinator) Balances() map[types.ParticipantID]int64 {
	reply := make(chan map[types.ParticipantID]int64, 1)
	c.balanceQuery <- reply
	return <-reply
}

// Blockchain returns a snapshot of every committed block, for the
// `blockchain` command (§6).
func (c *Coordinator) Blockchain() []types.Block {
	reply := make(chan []types.Block, 1)
	c.chainQuery <- reply
	return <-reply
}

// handleSubmit implements E1. Preconditions: requesting == false.
func (c *Coordinator) handleSubmit(to types.ParticipantID, amount int64) error {
	if c.requesting {
		return ErrRequestInFlight
	}

	t := c.clock.Tick()
	c.queue.Insert(t, c.selfID)
	c.chain.Stage(types.Transaction{From: c.selfID, To: to, Amount: amount})
	c.requesting = true
	c.replyCount = 0

	request := types.RequestMessage{SenderID: c.selfID, Timestamp: t}
	for _, peer := range c.transport.Peers() {
		c.sendTo(peer, types.NewRequestEnvelope(request))
	}
	return nil
}

// handleEnvelope dispatches an inbound wire message to its E2/E3/E4 handler,
// after checking the wire protocol version is one this build accepts.
func (c *Coordinator) handleEnvelope(e types.Envelope) {
	if err := types.CompatibleVersionAgainst(e.ProtocolVersion, c.config.MinProtocolVersion); err != nil {
		c.log.Warnf("dropping %s from peer on incompatible protocol version %q: %v", e.Kind, e.ProtocolVersion, err)
		return
	}

	switch e.Kind {
	case types.KindRequest:
		c.handleRequest(*e.Request)
	case types.KindReply:
		c.handleReply(*e.Reply)
	case types.KindRelease:
		c.handleRelease(*e.Release)
	default:
		c.log.Errorf("unexpected envelope kind %q", e.Kind)
	}
}

// handleRequest implements E2.
func (c *Coordinator) handleRequest(m types.RequestMessage) {
	c.queue.Insert(m.Timestamp, m.SenderID)
	c.clock.Observe(m.Timestamp)
	reply := types.ReplyMessage{SenderID: c.selfID, Timestamp: c.clock.Read()}
	c.sendTo(m.SenderID, types.NewReplyEnvelope(reply))
}

// handleReply implements E3, then evaluates the commit condition (E5).
func (c *Coordinator) handleReply(m types.ReplyMessage) {
	c.clock.Observe(m.Timestamp)
	c.replyCount++
	c.maybeCommit()
}

// handleRelease implements E4, then evaluates the commit condition (E5):
// popping our own head might promote self to the new head.
//
// Pop() here is unconditional, with no check that m.SenderID matches the
// current head, because E4 assumes the queue head is always the sender's
// own request: (a) a sender's REQUEST and its RELEASE travel on the same
// ordered connection, so the request is already queued here when the
// RELEASE arrives, and (b) a peer only ever broadcasts RELEASE from
// maybeCommit, which it reaches only once its own request heads its own
// queue and every peer, this one included, has replied to that REQUEST
// (E2 queues the request before replying). Nothing here checks that
// assumption: Pop removes whatever entry is at the head.
func (c *Coordinator) handleRelease(m types.ReleaseMessage) {
	c.queue.Pop()
	c.clock.Observe(m.Timestamp)

	// §9 open question, decided: verify the incoming block's hash
	// pointer against our own chain tail before appending.
	if !c.chain.VerifiedAppend(m.Block) {
		c.log.Errorf("rejecting RELEASE from peer %d: hash pointer does not match local chain tail", m.SenderID)
		return
	}
	c.balances.ApplyTransaction(m.Block.Transaction)
	c.maybeCommit()
}

// maybeCommit is E5: if all three hold — every peer has replied, this
// peer is at the head of the queue, and a local request is outstanding —
// seal the staged transaction, apply it locally, and broadcast RELEASE.
func (c *Coordinator) maybeCommit() {
	head, ok := c.queue.Peek()
	if c.replyCount != c.n || !ok || head.ParticipantID != c.selfID || !c.requesting {
		return
	}

	block := c.chain.Commit()
	c.balances.ApplyTransaction(block.Transaction)
	c.clock.Tick()
	c.queue.Pop()

	release := types.ReleaseMessage{SenderID: c.selfID, Timestamp: c.clock.Read(), Block: block}
	for _, peer := range c.transport.Peers() {
		c.sendTo(peer, types.NewReleaseEnvelope(release))
	}

	c.replyCount = 0
	c.requesting = false
}

// sendTo sends to a peer and logs (without failing the caller) on error —
// a protocol/transport error is logged and the system continues (§7).
func (c *Coordinator) sendTo(id types.ParticipantID, envelope types.Envelope) {
	if err := c.transport.Send(id, envelope); err != nil {
		c.log.Errorf("send to peer %d failed: %v", id, err)
	}
}
