package core

import (
	"testing"

	"github.com/anvil-labs/lamport-ledger/pkg/ledger/types"
)

func TestRequestQueue_PeekEmpty(t *testing.T) {
	q := NewRequestQueue()
	if _, ok := q.Peek(); ok {
		t.Fatal("expected empty queue to have no head")
	}
}

func TestRequestQueue_OrdersByTimestampThenParticipant(t *testing.T) {
	q := NewRequestQueue()
	q.Insert(5, 3)
	q.Insert(5, 1)
	q.Insert(2, 9)
	q.Insert(5, 2)

	want := []QueueEntry{
		{Timestamp: 2, ParticipantID: 9},
		{Timestamp: 5, ParticipantID: 1},
		{Timestamp: 5, ParticipantID: 2},
		{Timestamp: 5, ParticipantID: 3},
	}
	for i, w := range want {
		head, ok := q.Peek()
		if !ok {
			t.Fatalf("entry %d: expected a head", i)
		}
		if head != w {
			t.Fatalf("entry %d: expected %+v, got %+v", i, w, head)
		}
		q.Pop()
	}
	if _, ok := q.Peek(); ok {
		t.Fatal("expected queue to be drained")
	}
}

func TestRequestQueue_PopOnEmptyIsNoop(t *testing.T) {
	q := NewRequestQueue()
	q.Pop()
	if q.Len() != 0 {
		t.Fatalf("expected length 0, got %d", q.Len())
	}
}

func TestRequestQueue_AllowsDuplicates(t *testing.T) {
	q := NewRequestQueue()
	q.Insert(1, 7)
	q.Insert(1, 7)
	if q.Len() != 2 {
		t.Fatalf("expected duplicate entries to both be kept, got len %d", q.Len())
	}
	head, _ := q.Peek()
	if head != (QueueEntry{Timestamp: 1, ParticipantID: 7}) {
		t.Fatalf("unexpected head %+v", head)
	}
}

func TestRequestQueue_TieBreakByParticipantID(t *testing.T) {
	q := NewRequestQueue()
	q.Insert(1, 2)
	q.Insert(1, 1)
	head, ok := q.Peek()
	if !ok || head.ParticipantID != types.ParticipantID(1) {
		t.Fatalf("expected participant 1 to win tie, got %+v", head)
	}
}
