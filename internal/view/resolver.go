package view

// tableTypes maps every (ViewMode, FlowTarget) pair to its table type. A
// static table rather than branching, so totality is visible at a glance.
var tableTypes = map[ViewMode]map[FlowTarget]TableType{
	ViewModePage: {
		FlowTargetSource:      TableTypePageSourceCountries,
		FlowTargetDestination: TableTypePageDestinationCountries,
	},
	ViewModeDetails: {
		FlowTargetSource:      TableTypeDetailsSourceCountries,
		FlowTargetDestination: TableTypeDetailsDestinationCountries,
	},
}

// TableTypeFor returns the table type keyed by the given mode and target.
// Unknown inputs fall back to the page-level source table so that a caller
// bug degrades to a visible default rather than an empty state slice.
func TableTypeFor(mode ViewMode, target FlowTarget) TableType {
	if byTarget, ok := tableTypes[mode]; ok {
		if tt, ok := byTarget[target]; ok {
			return tt
		}
	}
	return TableTypePageSourceCountries
}
