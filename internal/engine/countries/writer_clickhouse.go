package countries

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS country_metrics (
    Timestamp            DateTime,
    TaskName             String,
    CountryCode          String,
    BytesIn              UInt64,
    BytesOut             UInt64,
    FlowsSource          UInt64,
    FlowsDestination     UInt64,
    UniqueSourceIPs      UInt64,
    UniqueDestinationIPs UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (TaskName, Timestamp, CountryCode);
`

// ClickHouseWriter implements the model.Writer interface for ClickHouse.
type ClickHouseWriter struct {
	conn     driver.Conn
	interval time.Duration
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig, interval time.Duration) (model.Writer, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &ClickHouseWriter{conn: conn, interval: interval}, nil
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *ClickHouseWriter) GetInterval() time.Duration {
	return w.interval
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
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

// Write inserts country data into the ClickHouse country_metrics table.
func (w *ClickHouseWriter) Write(payload interface{}, timestamp string) error {
	snapshot, ok := payload.(SnapshotData)
	if !ok {
		return fmt.Errorf("invalid payload type for ClickHouse Writer: expected countries.SnapshotData, got %T", payload)
	}

	if len(snapshot.Countries) == 0 {
		return nil // Nothing to write
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO country_metrics")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	snapshotTime, _ := time.Parse("2006-01-02_15-04-05", timestamp)

	for _, c := range snapshot.Countries {
		err = batch.Append(
			snapshotTime,
			snapshot.TaskName,
			c.CountryCode,
			c.BytesIn,
			c.BytesOut,
			c.FlowsSource,
			c.FlowsDestination,
			c.UniqueSourceIPs,
			c.UniqueDestinationIPs,
		)
		if err != nil {
			return fmt.Errorf("failed to append country to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d countries to ClickHouse for task '%s'", len(snapshot.Countries), snapshot.TaskName)
	return nil
}
