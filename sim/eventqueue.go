package sim

// eventQueue is a min-heap of events keyed on their time, driven through
// container/heap.
type eventQueue []Event

func (q eventQueue) Len() int {
	return len(q)
}

func (q eventQueue) Less(i, j int) bool {
	return q[i].Time() < q[j].Time()
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(Event))
}

func (q *eventQueue) Pop() any {
	old := *q
	last := len(old) - 1
	evt := old[last]
	old[last] = nil
	*q = old[:last]

	return evt
}
