package graph

import "sync"

// Ledger tracks which (label, id) node pairs have already been written this
// run. Membership is append-only. Processing is sequential today, but the
// check-and-insert is guarded so a parallel caller cannot double-write a node.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// MarkWritten records the pair and reports whether this call was the first
// writer. Callers emit the node row only on true.
func (l *Ledger) MarkWritten(label, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := label + "\x00" + id
	if _, ok := l.seen[key]; ok {
		return false
	}
	l.seen[key] = struct{}{}
	return true
}

// Size returns the number of distinct nodes recorded.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
