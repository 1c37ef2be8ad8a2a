package crawler

import (
	"container/list"

	"github.com/whynotcrybot/web-crawler/internal/model"
)

// Frontier is the breadth-first work queue of a crawl together with its
// visited set.
//
// Invariants:
//   - no two queued entries share a URL
//   - no entry is queued whose URL was visited at enqueue time
//   - the visited set only grows
//
// Design decision: We keep a URL index next to the linked list rather than
// scanning the queue on every enqueue. The observable behavior is the same
// as a linear scan, but wide pages with hundreds of links stay cheap.
//
// A Frontier is not safe for concurrent use. Each Driver run owns one.
type Frontier struct {
	queue   *list.List
	queued  map[string]struct{}
	visited map[string]struct{}
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		queue:   list.New(),
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Enqueue appends url to the tail of the queue with a depth derived from
// parent (0 when parent is nil). It does nothing and returns false when url
// is already visited or already queued.
func (f *Frontier) Enqueue(url string, parent *model.Entry) bool {
	if f.IsVisited(url) {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}
	f.queue.PushBack(model.NewEntry(url, parent))
	f.queued[url] = struct{}{}
	return true
}

// Dequeue removes and returns the head of the queue.
// It returns ErrEmptyFrontier when the queue is empty.
func (f *Frontier) Dequeue() (model.Entry, error) {
	head := f.queue.Front()
	if head == nil {
		return model.Entry{}, ErrEmptyFrontier
	}
	entry := f.queue.Remove(head).(model.Entry) //nolint:forcetypeassert // only Entry values are pushed
	delete(f.queued, entry.URL)
	return entry, nil
}

// MarkVisited adds url to the visited set. Marking twice is harmless.
func (f *Frontier) MarkVisited(url string) {
	f.visited[url] = struct{}{}
}

// IsVisited reports whether url has been marked visited.
func (f *Frontier) IsVisited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	return f.queue.Len()
}

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
