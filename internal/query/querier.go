// Package query reads aggregated country traffic back out of ClickHouse for
// the dashboard tables.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/prometheus/client_golang/prometheus"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/metrics"
	"FlowAtlas/internal/model"
	"FlowAtlas/internal/view"
)

// maxPages caps how deep the dashboard pagination can go. The capped value
// is reported as FakeTotalCount alongside the true total.
const maxPages = 10

// TopCountriesRequest describes one page of the top-countries table.
type TopCountriesRequest struct {
	Target    view.FlowTarget
	SortField string // qualified field path from the view layer
	Direction view.SortDirection
	Limit     int
	Offset    int
	From      time.Time
	To        time.Time
}

// TopCountriesResult is one page of rows plus the pagination totals.
type TopCountriesResult struct {
	Rows           []model.CountryTraffic
	TotalCount     int
	FakeTotalCount int
}

// Querier defines the interface for querying aggregated country traffic.
type Querier interface {
	TopCountries(ctx context.Context, req TopCountriesRequest) (*TopCountriesResult, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn clickhouse.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (clickhouse.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// TopCountries executes the aggregation query for one table page.
func (q *clickhouseQuerier) TopCountries(ctx context.Context, req TopCountriesRequest) (*TopCountriesResult, error) {
	timer := prometheus.NewTimer(metrics.QueryDurationSeconds)
	defer timer.ObserveDuration()

	sql, args := BuildTopCountriesQuery(req)
	rows, err := q.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute top countries query: %w", err)
	}
	defer rows.Close()

	result := &TopCountriesResult{}
	for rows.Next() {
		var row model.CountryTraffic
		if err := rows.Scan(&row.CountryCode, &row.BytesIn, &row.BytesOut, &row.Flows, &row.UniqueIPs); err != nil {
			return nil, fmt.Errorf("failed to scan country row: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}

	countSQL, countArgs := BuildTotalCountQuery(req)
	var total uint64
	if err := q.conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to scan total count: %w", err)
	}

	result.TotalCount = int(total)
	result.FakeTotalCount = fakeTotalCount(result.TotalCount, req.Limit)
	return result, nil
}

// fakeTotalCount caps the total used for pagination UI sizing at maxPages
// pages of the current limit.
func fakeTotalCount(total, limit int) int {
	if limit <= 0 {
		return total
	}
	if capped := maxPages * limit; total > capped {
		return capped
	}
	return total
}
