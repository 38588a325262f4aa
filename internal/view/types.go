package view

// ViewMode distinguishes the network overview page from the single-entity
// details page. Each mode keys its own set of table state slices.
type ViewMode string

const (
	ViewModePage    ViewMode = "page"
	ViewModeDetails ViewMode = "details"
)

// FlowTarget is the perspective a traffic record is analyzed from.
type FlowTarget string

const (
	FlowTargetSource      FlowTarget = "source"
	FlowTargetDestination FlowTarget = "destination"
)

// TableType identifies one independent pagination/sort/limit state slice in
// the table state store.
type TableType string

const (
	TableTypePageSourceCountries         TableType = "topCountriesSource"
	TableTypePageDestinationCountries    TableType = "topCountriesDestination"
	TableTypeDetailsSourceCountries      TableType = "detailsTopCountriesSource"
	TableTypeDetailsDestinationCountries TableType = "detailsTopCountriesDestination"
)

// SortDirection is the requested ordering of a sorted column.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortField is one of the closed set of sortable top-countries columns.
type SortField string

const (
	FieldCountryCode SortField = "country_code"
	FieldBytesIn     SortField = "bytes_in"
	FieldBytesOut    SortField = "bytes_out"
	FieldFlows       SortField = "flows"
	FieldUniqueIPs   SortField = "unique_ips"
)

// SortDescriptor is the sort state of a single table.
type SortDescriptor struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}
