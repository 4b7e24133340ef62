package sim

import "container/heap"

// eventHeap is a priority queue of scheduledEvents ordered by time, and,
// within the same time, by the order in which the events were pushed. The
// sequence number tiebreak is what gives the scheduler its FIFO-at-equal-time
// guarantee; a plain time-only heap (as used by earlier, single-precision
// engines) cannot make that promise.
type eventHeap []*scheduledEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*scheduledEvent))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

var _ = heap.Interface(&eventHeap{})
