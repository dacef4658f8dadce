package requests

import "liftsim/elevio"

// Queue is the FIFO backlog of registered calls still waiting for a car.
type Queue struct {
	calls []elevio.Call
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(call elevio.Call) {
	q.calls = append(q.calls, call)
}

func (q *Queue) Peek() (elevio.Call, bool) {
	if len(q.calls) == 0 {
		return elevio.Call{}, false
	}
	return q.calls[0], true
}

func (q *Queue) Dequeue() (elevio.Call, bool) {
	call, ok := q.Peek()
	if !ok {
		return call, false
	}
	q.calls[0] = elevio.Call{}
	q.calls = q.calls[1:]
	return call, true
}

func (q *Queue) Len() int {
	return len(q.calls)
}

// Calls returns the queued calls front first. The slice shares storage with the
// queue and must not be modified or kept past the caller's lock.
func (q *Queue) Calls() []elevio.Call {
	return q.calls
}
