package view

import "testing"

func TestTableTypeForIsTotalAndInjective(t *testing.T) {
	modes := []ViewMode{ViewModePage, ViewModeDetails}
	targets := []FlowTarget{FlowTargetSource, FlowTargetDestination}

	seen := make(map[TableType]string)
	for _, mode := range modes {
		for _, target := range targets {
			tt := TableTypeFor(mode, target)
			if tt == "" {
				t.Fatalf("TableTypeFor(%s, %s) returned empty table type", mode, target)
			}
			pair := string(mode) + "/" + string(target)
			if prev, dup := seen[tt]; dup {
				t.Errorf("table type %q returned for both %s and %s", tt, prev, pair)
			}
			seen[tt] = pair
		}
	}

	if len(seen) != 4 {
		t.Errorf("expected 4 distinct table types, got %d", len(seen))
	}
}

func TestTableTypeForKnownPairs(t *testing.T) {
	if tt := TableTypeFor(ViewModePage, FlowTargetSource); tt != TableTypePageSourceCountries {
		t.Errorf("page/source resolved to %q", tt)
	}
	if tt := TableTypeFor(ViewModeDetails, FlowTargetDestination); tt != TableTypeDetailsDestinationCountries {
		t.Errorf("details/destination resolved to %q", tt)
	}
}
