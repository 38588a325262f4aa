package view

import "testing"

// recordingDispatcher captures every applied delta for inspection.
type recordingDispatcher struct {
	calls  int
	mode   ViewMode
	table  TableType
	deltas []TableDelta
}

func (d *recordingDispatcher) Apply(mode ViewMode, table TableType, delta TableDelta) {
	d.calls++
	d.mode = mode
	d.table = table
	d.deltas = append(d.deltas, delta)
}

func newTestInteractions(current SortDescriptor) (*Interactions, *recordingDispatcher) {
	d := &recordingDispatcher{}
	in := NewInteractions(ViewModePage, FlowTargetDestination, d, func() SortDescriptor {
		return current
	})
	return in, d
}

func TestUpdateLimitAlwaysDispatches(t *testing.T) {
	in, d := newTestInteractions(SortDescriptor{Field: FieldBytesOut, Direction: SortDescending})

	in.UpdateLimit(10)
	in.UpdateLimit(10)

	if d.calls != 2 {
		t.Fatalf("expected 2 dispatches, got %d", d.calls)
	}
	if d.mode != ViewModePage || d.table != TableTypePageDestinationCountries {
		t.Errorf("intent addressed to (%s, %s)", d.mode, d.table)
	}
	if d.deltas[0].Limit == nil || *d.deltas[0].Limit != 10 {
		t.Errorf("limit delta not carried: %+v", d.deltas[0])
	}
	if d.deltas[0].ActivePage != nil || d.deltas[0].Sort != nil {
		t.Errorf("limit intent carried extra fields: %+v", d.deltas[0])
	}
}

func TestUpdateActivePageAlwaysDispatches(t *testing.T) {
	in, d := newTestInteractions(SortDescriptor{Field: FieldBytesOut, Direction: SortDescending})

	in.UpdateActivePage(2)

	if d.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", d.calls)
	}
	if d.deltas[0].ActivePage == nil || *d.deltas[0].ActivePage != 2 {
		t.Errorf("page delta not carried: %+v", d.deltas[0])
	}
}

func TestUpdateSortNewFieldForcesDescending(t *testing.T) {
	in, d := newTestInteractions(SortDescriptor{Field: FieldCountryCode, Direction: SortDescending})

	// The widget asks for ascending on a column that is not the active one.
	in.UpdateSort(SortCandidate{Field: "record.destination.flows", Direction: SortAscending})

	if d.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", d.calls)
	}
	sort := d.deltas[0].Sort
	if sort == nil {
		t.Fatalf("sort delta missing: %+v", d.deltas[0])
	}
	if sort.Field != FieldFlows || sort.Direction != SortDescending {
		t.Errorf("expected flows/desc, got %s/%s", sort.Field, sort.Direction)
	}
}

func TestUpdateSortSameFieldTogglesDirection(t *testing.T) {
	in, d := newTestInteractions(SortDescriptor{Field: FieldCountryCode, Direction: SortDescending})

	in.UpdateSort(SortCandidate{Field: "record.destination.country_code", Direction: SortAscending})

	if d.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", d.calls)
	}
	sort := d.deltas[0].Sort
	if sort == nil || sort.Field != FieldCountryCode || sort.Direction != SortAscending {
		t.Errorf("expected country_code/asc, got %+v", sort)
	}
}

func TestUpdateSortIdenticalCandidateIsSuppressed(t *testing.T) {
	in, d := newTestInteractions(SortDescriptor{Field: FieldCountryCode, Direction: SortDescending})

	in.UpdateSort(SortCandidate{Field: "record.destination.country_code", Direction: SortDescending})

	if d.calls != 0 {
		t.Fatalf("expected no dispatch for a no-op sort, got %d", d.calls)
	}
}
