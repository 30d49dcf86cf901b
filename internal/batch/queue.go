package batch

import "sync"

// WorkItem is either an ImageTask or a ShutdownSignal. The unexported
// method keeps the set closed so a type switch at dequeue is exhaustive.
type WorkItem interface {
	workItem()
}

// ImageTask identifies one image to analyze
type ImageTask struct {
	Path string
}

// ShutdownSignal tells the worker that receives it to stop
type ShutdownSignal struct{}

func (ImageTask) workItem()      {}
func (ShutdownSignal) workItem() {}

// WorkQueue is an unbounded FIFO shared by the coordinator and the workers.
// Enqueue never blocks; Dequeue blocks until an item is available.
type WorkQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []WorkItem
	head  int
}

// NewWorkQueue creates an empty queue
func NewWorkQueue() *WorkQueue {
	q := &WorkQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item to the tail
func (q *WorkQueue) Enqueue(item WorkItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Dequeue removes and returns the head item, waiting while the queue is empty
func (q *WorkQueue) Dequeue() WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) {
		q.cond.Wait()
	}

	item := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	// Reclaim the consumed prefix once the queue runs dry
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return item
}

// Len returns the number of pending items
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
