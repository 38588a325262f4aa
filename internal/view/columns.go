package view

// IndexPattern describes the backing index schema the dashboard queries.
// Columns whose field is absent from the pattern are dropped from the spec.
type IndexPattern struct {
	Title  string
	Fields []string
}

// HasField reports whether the pattern knows the given logical field.
func (p IndexPattern) HasField(name SortField) bool {
	for _, f := range p.Fields {
		if f == string(name) {
			return true
		}
	}
	return false
}

// Column is a single column definition of the top-countries table.
type Column struct {
	ID       string `json:"id"` // qualified sort field path, "" when not sortable
	Header   string `json:"header"`
	Sortable bool   `json:"sortable"`
}

// columnHeader returns the per-target header wording for a field.
func columnHeader(field SortField, target FlowTarget) string {
	switch field {
	case FieldCountryCode:
		if target == FlowTargetSource {
			return "Source country"
		}
		return "Destination country"
	case FieldBytesIn:
		return "Bytes in"
	case FieldBytesOut:
		return "Bytes out"
	case FieldFlows:
		return "Flows"
	case FieldUniqueIPs:
		if target == FlowTargetSource {
			return "Unique source IPs"
		}
		return "Unique destination IPs"
	}
	return string(field)
}

// columnOrder is the fixed left-to-right layout of the table.
var columnOrder = []SortField{
	FieldCountryCode,
	FieldBytesIn,
	FieldBytesOut,
	FieldFlows,
	FieldUniqueIPs,
}

// BuildColumns derives the column spec for a table from the index pattern,
// the flow target and the view mode. The details view drops the country
// column: the page already names the entity being inspected.
func BuildColumns(pattern IndexPattern, target FlowTarget, mode ViewMode) []Column {
	cols := make([]Column, 0, len(columnOrder))
	for _, field := range columnOrder {
		if !pattern.HasField(field) {
			continue
		}
		if mode == ViewModeDetails && field == FieldCountryCode {
			continue
		}
		cols = append(cols, Column{
			ID:       QualifiedSortField(field, target),
			Header:   columnHeader(field, target),
			Sortable: true,
		})
	}
	return cols
}
