package core

import (
	"container/heap"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

// QueueEntry is a pending critical-section request, ordered lexicographically
// on (Timestamp, ParticipantID) so every peer computes the same head
// deterministically (§3, §4.2).
type QueueEntry struct {
	Timestamp     uint64
	ParticipantID types.ParticipantID
}

func (e QueueEntry) less(o QueueEntry) bool {
	if e.Timestamp != o.Timestamp {
		return e.Timestamp < o.Timestamp
	}
	return e.ParticipantID < o.ParticipantID
}

type entryHeap []QueueEntry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(QueueEntry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// RequestQueue is the min-priority queue over (timestamp, participant_id)
// described in §4.2. Duplicates are allowed; the protocol never produces
// them for a well-formed peer but the queue itself doesn't reject them.
type RequestQueue struct {
	entries entryHeap
}

// NewRequestQueue returns an empty queue.
func NewRequestQueue() *RequestQueue {
	q := &RequestQueue{}
	heap.Init(&q.entries)
	return q
}

// Insert adds an entry.
func (q *RequestQueue) Insert(timestamp uint64, id types.ParticipantID) {
	heap.Push(&q.entries, QueueEntry{Timestamp: timestamp, ParticipantID: id})
}

// Pop removes the smallest entry; a no-op if the queue is empty.
func (q *RequestQueue) Pop() {
	if q.entries.Len() == 0 {
		return
	}
	heap.Pop(&q.entries)
}

// Peek returns a copy of the smallest entry, or false if the queue is empty.
func (q *RequestQueue) Peek() (QueueEntry, bool) {
	if q.entries.Len() == 0 {
		return QueueEntry{}, false
	}
	return q.entries[0], true
}

// Len reports the number of pending entries.
func (q *RequestQueue) Len() int {
	return q.entries.Len()
}
