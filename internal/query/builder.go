package query

import (
	"strings"

	"FlowAtlas/internal/view"
)

// sortColumns maps a logical sort field to the alias it carries in the
// aggregation SELECT. Flows and unique-IP columns are picked per target in
// selectColumns, so one alias serves both directions.
var sortColumns = map[view.SortField]string{
	view.FieldCountryCode: "CountryCode",
	view.FieldBytesIn:     "TotalBytesIn",
	view.FieldBytesOut:    "TotalBytesOut",
	view.FieldFlows:       "TotalFlows",
	view.FieldUniqueIPs:   "TotalUniqueIPs",
}

// OrderColumnFor resolves a qualified sort field path to a SQL column alias.
// Unknown paths fall back to bytes out, the dashboard's default ordering.
func OrderColumnFor(qualified string) string {
	if col, ok := sortColumns[view.LogicalSortField(qualified)]; ok {
		return col
	}
	return "TotalBytesOut"
}

// selectColumns returns the per-target flow and unique-IP source columns.
func selectColumns(target view.FlowTarget) (flowsCol, ipsCol string) {
	if target == view.FlowTargetSource {
		return "FlowsSource", "UniqueSourceIPs"
	}
	return "FlowsDestination", "UniqueDestinationIPs"
}

// BuildTopCountriesQuery builds the aggregation query for one table page.
// Sorting, limit and offset come straight from the table state; the sort
// column is resolved through a closed alias map, never interpolated from
// user input.
func BuildTopCountriesQuery(req TopCountriesRequest) (string, []interface{}) {
	flowsCol, ipsCol := selectColumns(req.Target)

	var b strings.Builder
	b.WriteString("SELECT CountryCode, SUM(BytesIn) AS TotalBytesIn, SUM(BytesOut) AS TotalBytesOut, SUM(")
	b.WriteString(flowsCol)
	b.WriteString(") AS TotalFlows, SUM(")
	b.WriteString(ipsCol)
	b.WriteString(") AS TotalUniqueIPs FROM country_metrics")

	where, args := timeWindow(req)
	b.WriteString(where)

	b.WriteString(" GROUP BY CountryCode ORDER BY ")
	b.WriteString(OrderColumnFor(req.SortField))
	if req.Direction == view.SortAscending {
		b.WriteString(" ASC")
	} else {
		b.WriteString(" DESC")
	}

	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, req.Limit, req.Offset)

	return b.String(), args
}

// BuildTotalCountQuery builds the companion query counting distinct
// countries in the same time window.
func BuildTotalCountQuery(req TopCountriesRequest) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(DISTINCT CountryCode) FROM country_metrics")
	where, args := timeWindow(req)
	b.WriteString(where)
	return b.String(), args
}

func timeWindow(req TopCountriesRequest) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if !req.From.IsZero() {
		clauses = append(clauses, "Timestamp >= ?")
		args = append(args, req.From)
	}
	if !req.To.IsZero() {
		clauses = append(clauses, "Timestamp <= ?")
		args = append(args, req.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
