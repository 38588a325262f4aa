// Package store holds the per-table pagination, limit and sort state shared
// by the dashboard tables. All mutation goes through Apply, which serializes
// updates and notifies subscribers.
package store

import (
	"sync"

	"FlowAtlas/internal/metrics"
	"FlowAtlas/internal/view"
)

// DefaultLimit is the page size of a table that was never interacted with.
const DefaultLimit = 10

// Update describes one applied state change, as delivered to subscribers.
type Update struct {
	Mode  view.ViewMode   `json:"mode"`
	Table view.TableType  `json:"table"`
	State view.TableState `json:"state"`
}

// Store is the table state store. The zero state of an unseen table is page
// zero, the default limit, and bytes_out descending.
type Store struct {
	mu     sync.RWMutex
	tables map[view.TableType]view.TableState

	subMu sync.Mutex
	subs  []chan Update
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tables: make(map[view.TableType]view.TableState),
	}
}

func defaultState() view.TableState {
	return view.TableState{
		ActivePage: 0,
		Limit:      DefaultLimit,
		Sort: view.SortDescriptor{
			Field:     view.FieldBytesOut,
			Direction: view.SortDescending,
		},
	}
}

// TableState returns the current state slice for a table.
func (s *Store) TableState(table view.TableType) view.TableState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.tables[table]; ok {
		return state
	}
	return defaultState()
}

// Apply merges a delta into the addressed table's state and notifies
// subscribers. Nil delta fields leave the corresponding state untouched.
// Implements view.Dispatcher.
func (s *Store) Apply(mode view.ViewMode, table view.TableType, delta view.TableDelta) {
	s.mu.Lock()
	state, ok := s.tables[table]
	if !ok {
		state = defaultState()
	}
	if delta.Limit != nil {
		state.Limit = *delta.Limit
		metrics.IntentsAppliedTotal.WithLabelValues("limit").Inc()
	}
	if delta.ActivePage != nil {
		state.ActivePage = *delta.ActivePage
		metrics.IntentsAppliedTotal.WithLabelValues("page").Inc()
	}
	if delta.Sort != nil {
		state.Sort = *delta.Sort
		metrics.IntentsAppliedTotal.WithLabelValues("sort").Inc()
	}
	s.tables[table] = state
	s.mu.Unlock()

	s.notify(Update{Mode: mode, Table: table, State: state})
}

// Subscribe returns a channel that receives every applied update. Slow
// subscribers lose updates instead of blocking the store.
func (s *Store) Subscribe() <-chan Update {
	ch := make(chan Update, 16)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify(u Update) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
