package vclock

import "container/heap"

type callback struct {
	at  int64
	seq uint64
	fn  func(frameNanos int64)
}

// callbackQueue is a min-heap ordered by due time, then posting order.
type callbackQueue []callback

func (q callbackQueue) Len() int { return len(q) }

func (q callbackQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q callbackQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *callbackQueue) Push(x any) { *q = append(*q, x.(callback)) }

func (q *callbackQueue) Pop() any {
	old := *q
	n := len(old)
	cb := old[n-1]
	old[n-1] = callback{}
	*q = old[:n-1]
	return cb
}

func (q *callbackQueue) push(cb callback) { heap.Push(q, cb) }

func (q *callbackQueue) pop() callback { return heap.Pop(q).(callback) }

func (q callbackQueue) peek() callback { return q[0] }
