package view

// TableDelta is a partial update to one table's state slice. Nil fields are
// left untouched by the store.
type TableDelta struct {
	Limit      *int
	ActivePage *int
	Sort       *SortDescriptor
}

// Dispatcher applies a delta to the state slice addressed by (mode, table).
// The store behind it serializes all updates.
type Dispatcher interface {
	Apply(mode ViewMode, table TableType, delta TableDelta)
}

// SortCandidate is a sort request as produced by the table widget: the
// qualified field path of the clicked column plus the requested direction.
type SortCandidate struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Interactions packages the three update intents of a single table. The
// dispatcher and the current-sort accessor are injected so the component
// carries no ambient store reference.
type Interactions struct {
	mode        ViewMode
	table       TableType
	dispatcher  Dispatcher
	currentSort func() SortDescriptor
}

// NewInteractions wires the intents for the table addressed by mode and target.
func NewInteractions(mode ViewMode, target FlowTarget, d Dispatcher, currentSort func() SortDescriptor) *Interactions {
	return &Interactions{
		mode:        mode,
		table:       TableTypeFor(mode, target),
		dispatcher:  d,
		currentSort: currentSort,
	}
}

// TableType returns the table type the intents are addressed to.
func (in *Interactions) TableType() TableType {
	return in.table
}

// UpdateLimit proposes a new page size. Always dispatched; the store applies
// it idempotently.
func (in *Interactions) UpdateLimit(limit int) {
	in.dispatcher.Apply(in.mode, in.table, TableDelta{Limit: &limit})
}

// UpdateActivePage proposes a new active page. Always dispatched.
func (in *Interactions) UpdateActivePage(page int) {
	in.dispatcher.Apply(in.mode, in.table, TableDelta{ActivePage: &page})
}

// UpdateSort proposes a new sort. The first interaction with a new column
// always starts descending, whatever direction the widget requested; the
// same column toggles freely. A candidate equal to the current sort is
// suppressed so the store sees no redundant update.
func (in *Interactions) UpdateSort(candidate SortCandidate) {
	next := SortDescriptor{
		Field:     LogicalSortField(candidate.Field),
		Direction: candidate.Direction,
	}

	current := in.currentSort()
	if next.Field != current.Field {
		next.Direction = SortDescending
	}

	if next == current {
		return
	}

	in.dispatcher.Apply(in.mode, in.table, TableDelta{Sort: &next})
}
