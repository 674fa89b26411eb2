package typist

// queue is an unbounded FIFO of pending runes. Only the worker goroutine
// touches it, so no locking is needed.
type queue struct {
	runes []rune
	head  int
}

func (q *queue) Push(s string) {
	q.runes = append(q.runes, []rune(s)...)
}

func (q *queue) Len() int { return len(q.runes) - q.head }

func (q *queue) Peek() (rune, bool) {
	if q.head >= len(q.runes) {
		return 0, false
	}
	return q.runes[q.head], true
}

func (q *queue) Pop() {
	if q.head >= len(q.runes) {
		return
	}
	q.head++
	// Compact once the consumed prefix dominates so memory stays bounded by
	// the unsent tail.
	if q.head > 64 && q.head*2 >= len(q.runes) {
		q.runes = append(q.runes[:0], q.runes[q.head:]...)
		q.head = 0
	}
}
