package view

import (
	"testing"

	"FlowAtlas/internal/model"
)

var testPattern = IndexPattern{
	Title:  "traffic-*",
	Fields: []string{"country_code", "bytes_in", "bytes_out", "flows", "unique_ips"},
}

func TestBuildColumnsDropsUnknownFields(t *testing.T) {
	pattern := IndexPattern{Title: "partial-*", Fields: []string{"country_code", "bytes_out"}}

	cols := BuildColumns(pattern, FlowTargetSource, ViewModePage)
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d: %+v", len(cols), cols)
	}
	if cols[0].ID != "record.source.country_code" || cols[1].ID != "record.network.bytes_out" {
		t.Errorf("unexpected column ids: %q, %q", cols[0].ID, cols[1].ID)
	}
}

func TestBuildColumnsDetailsDropsCountryColumn(t *testing.T) {
	cols := BuildColumns(testPattern, FlowTargetDestination, ViewModeDetails)
	for _, c := range cols {
		if c.ID == "record.destination.country_code" {
			t.Errorf("details view should not carry the country column")
		}
	}
	if len(cols) != 4 {
		t.Errorf("expected 4 columns in details view, got %d", len(cols))
	}
}

// fixedStore serves the same state for every table type.
type fixedStore struct {
	state TableState
}

func (s fixedStore) TableState(TableType) TableState { return s.state }

func TestRendererAssemblesConfig(t *testing.T) {
	store := fixedStore{state: TableState{
		ActivePage: 1,
		Limit:      10,
		Sort:       SortDescriptor{Field: FieldBytesOut, Direction: SortDescending},
	}}
	d := &recordingDispatcher{}
	r := NewRenderer(store, d)

	cfg := r.Render(TableProps{
		Mode:           ViewModePage,
		Target:         FlowTargetSource,
		Pattern:        testPattern,
		Rows:           []model.CountryTraffic{{CountryCode: "DE", BytesOut: 42}},
		TotalCount:     1,
		FakeTotalCount: 1,
		ID:             "top-countries",
	})

	if cfg.TableType != TableTypePageSourceCountries {
		t.Errorf("table type resolved to %q", cfg.TableType)
	}
	if cfg.Title != "Source countries" {
		t.Errorf("title %q", cfg.Title)
	}
	if cfg.UnitLabel != "country" {
		t.Errorf("unit label for count 1 should be singular, got %q", cfg.UnitLabel)
	}
	if cfg.SortField != "record.network.bytes_out" {
		t.Errorf("active sort qualified as %q", cfg.SortField)
	}
	if len(cfg.PageSizeOptions) != 2 || cfg.PageSizeOptions[0] != 5 || cfg.PageSizeOptions[1] != 10 {
		t.Errorf("page size options %v", cfg.PageSizeOptions)
	}
	if cfg.TestID != "table-topCountriesSource-loading-false" {
		t.Errorf("test id %q", cfg.TestID)
	}

	// The wired callbacks must address the resolved table type.
	cfg.OnPageChange(3)
	if d.calls != 1 || d.table != TableTypePageSourceCountries {
		t.Errorf("page intent not dispatched to the resolved table: calls=%d table=%s", d.calls, d.table)
	}
}

func TestRendererCachesColumnSpecPerKey(t *testing.T) {
	store := fixedStore{state: TableState{Limit: 10}}
	r := NewRenderer(store, &recordingDispatcher{})

	props := TableProps{Mode: ViewModePage, Target: FlowTargetSource, Pattern: testPattern}
	first := r.Render(props).Columns
	second := r.Render(props).Columns

	if &first[0] != &second[0] {
		t.Errorf("expected the cached column slice to be reused for an unchanged key")
	}

	other := r.Render(TableProps{Mode: ViewModePage, Target: FlowTargetDestination, Pattern: testPattern}).Columns
	if other[0].Header == first[0].Header {
		t.Errorf("destination columns should differ from source columns")
	}
}
