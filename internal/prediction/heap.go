package prediction

// PriorityQueue is an array-backed binary max-heap keyed by score.
// Among equal scores, the item pushed first pops first.
// The zero value is ready to use.
type PriorityQueue[T any] struct {
	entries []pqEntry[T]
	seq     uint64
}

type pqEntry[T any] struct {
	item  T
	score float64
	seq   uint64
}

// Len returns the number of queued items.
func (q *PriorityQueue[T]) Len() int { return len(q.entries) }

// Push inserts item with the given score.
func (q *PriorityQueue[T]) Push(item T, score float64) {
	q.entries = append(q.entries, pqEntry[T]{item: item, score: score, seq: q.seq})
	q.seq++
	q.up(len(q.entries) - 1)
}

// Pop removes and returns the highest scored item.
// On an empty queue it returns the zero value and false.
func (q *PriorityQueue[T]) Pop() (T, float64, bool) {
	if len(q.entries) == 0 {
		var zero T
		return zero, 0, false
	}
	top := q.entries[0]
	last := len(q.entries) - 1
	q.entries[0] = q.entries[last]
	q.entries[last] = pqEntry[T]{}
	q.entries = q.entries[:last]
	if last > 0 {
		q.down(0)
	}
	return top.item, top.score, true
}

func (q *PriorityQueue[T]) before(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

func (q *PriorityQueue[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.before(i, parent) {
			return
		}
		q.entries[i], q.entries[parent] = q.entries[parent], q.entries[i]
		i = parent
	}
}

func (q *PriorityQueue[T]) down(i int) {
	n := len(q.entries)
	for {
		best := i
		if l := 2*i + 1; l < n && q.before(l, best) {
			best = l
		}
		if r := 2*i + 2; r < n && q.before(r, best) {
			best = r
		}
		if best == i {
			return
		}
		q.entries[i], q.entries[best] = q.entries[best], q.entries[i]
		i = best
	}
}
