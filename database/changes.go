package database

import "sync"

// Change topics, one per table.
const (
	TableNotes  = "notes"
	TableTasks  = "tasks"
	TableLedger = "ledger_entries"
)

var Tables = []string{TableNotes, TableTasks, TableLedger}

// Hub fans out "table changed" signals to subscribers. Signals carry no
// payload and coalesce: a slow subscriber sees at most one pending signal,
// which is enough to re-read the latest committed state.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers interest in a table. The returned func unregisters it
// and is safe to call more than once.
func (h *Hub) Subscribe(table string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan struct{}, 1)
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan struct{})
	}
	h.subs[table][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[table], id)
		})
	}
}

// Publish signals every subscriber of table without blocking.
func (h *Hub) Publish(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// PublishAll signals every table.
func (h *Hub) PublishAll() {
	for _, table := range Tables {
		h.Publish(table)
	}
}

// Subscribers reports how many subscriptions are open on table.
func (h *Hub) Subscribers(table string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[table])
}
