package view

import (
	"fmt"
	"sync"

	"FlowAtlas/internal/model"
)

// PageSizeOptions are the fixed page sizes offered by the table.
var PageSizeOptions = []int{5, 10}

// TableState is one table's pagination and sort state as read from the store.
type TableState struct {
	ActivePage int            `json:"active_page"`
	Limit      int            `json:"limit"`
	Sort       SortDescriptor `json:"sort"`
}

// StateReader reads the current state slice of a table.
type StateReader interface {
	TableState(table TableType) TableState
}

// TableProps is everything the caller supplies for one render.
type TableProps struct {
	Mode           ViewMode
	Target         FlowTarget
	Pattern        IndexPattern
	Rows           []model.CountryTraffic
	TotalCount     int
	FakeTotalCount int
	Loading        bool
	Inspect        bool
	ShowMorePages  bool
	ID             string
}

// TableConfig is the fully assembled configuration handed to the generic
// paginated table. Interaction callbacks are wired to the table's intents.
type TableConfig struct {
	ID              string                 `json:"id"`
	TestID          string                 `json:"test_id"`
	TableType       TableType              `json:"table_type"`
	Title           string                 `json:"title"`
	UnitLabel       string                 `json:"unit_label"`
	Columns         []Column               `json:"columns"`
	PageSizeOptions []int                  `json:"page_size_options"`
	State           TableState             `json:"state"`
	SortField       string                 `json:"sort_field"` // qualified path of the active sort
	Rows            []model.CountryTraffic `json:"rows"`
	TotalCount      int                    `json:"total_count"`
	FakeTotalCount  int                    `json:"fake_total_count"`
	Loading         bool                   `json:"loading"`
	Inspect         bool                   `json:"inspect"`
	ShowMorePages   bool                   `json:"show_more_pages"`

	OnLimitChange func(int)           `json:"-"`
	OnPageChange  func(int)           `json:"-"`
	OnSortChange  func(SortCandidate) `json:"-"`
}

// Title returns the header title for a flow target.
func Title(target FlowTarget) string {
	if target == FlowTargetSource {
		return "Source countries"
	}
	return "Destination countries"
}

// UnitLabel pluralizes the header count label.
func UnitLabel(totalCount int) string {
	if totalCount == 1 {
		return "country"
	}
	return "countries"
}

type columnKey struct {
	mode    ViewMode
	target  FlowTarget
	pattern string
}

// Renderer assembles table configs from store state and caller props. Column
// specs are cached behind an explicit (mode, target, pattern) key instead of
// being rebuilt every render.
type Renderer struct {
	store      StateReader
	dispatcher Dispatcher

	mu      sync.Mutex
	columns map[columnKey][]Column
}

// NewRenderer creates a renderer reading state from store and dispatching
// intents through d.
func NewRenderer(store StateReader, d Dispatcher) *Renderer {
	return &Renderer{
		store:      store,
		dispatcher: d,
		columns:    make(map[columnKey][]Column),
	}
}

func (r *Renderer) columnsFor(pattern IndexPattern, target FlowTarget, mode ViewMode) []Column {
	key := columnKey{mode: mode, target: target, pattern: pattern.Title}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cols, ok := r.columns[key]; ok {
		return cols
	}
	cols := BuildColumns(pattern, target, mode)
	r.columns[key] = cols
	return cols
}

// Render assembles the table config for one render cycle. It holds no state
// of its own beyond the column cache: everything else is read fresh.
func (r *Renderer) Render(p TableProps) TableConfig {
	tableType := TableTypeFor(p.Mode, p.Target)
	state := r.store.TableState(tableType)
	intents := NewInteractions(p.Mode, p.Target, r.dispatcher, func() SortDescriptor {
		return r.store.TableState(tableType).Sort
	})

	return TableConfig{
		ID:              p.ID,
		TestID:          fmt.Sprintf("table-%s-loading-%t", tableType, p.Loading),
		TableType:       tableType,
		Title:           Title(p.Target),
		UnitLabel:       UnitLabel(p.TotalCount),
		Columns:         r.columnsFor(p.Pattern, p.Target, p.Mode),
		PageSizeOptions: PageSizeOptions,
		State:           state,
		SortField:       QualifiedSortField(state.Sort.Field, p.Target),
		Rows:            p.Rows,
		TotalCount:      p.TotalCount,
		FakeTotalCount:  p.FakeTotalCount,
		Loading:         p.Loading,
		Inspect:         p.Inspect,
		ShowMorePages:   p.ShowMorePages,
		OnLimitChange:   intents.UpdateLimit,
		OnPageChange:    intents.UpdateActivePage,
		OnSortChange:    intents.UpdateSort,
	}
}
