package view

import "strings"

// qualifiedRoot is the namespace root of the backing record schema.
const qualifiedRoot = "record"

// QualifiedSortField derives the fully-qualified field path the query layer
// expects for a sortable column. Byte counters are direction-agnostic
// aggregates stored once per record under the network namespace; every other
// sortable field is duplicated per flow target.
func QualifiedSortField(field SortField, target FlowTarget) string {
	switch field {
	case FieldBytesIn, FieldBytesOut:
		return qualifiedRoot + ".network." + string(field)
	default:
		return qualifiedRoot + "." + string(target) + "." + string(field)
	}
}

// LogicalSortField recovers the logical field from a qualified path by taking
// the last path segment, undoing QualifiedSortField.
func LogicalSortField(qualified string) SortField {
	parts := strings.Split(qualified, ".")
	return SortField(parts[len(parts)-1])
}
