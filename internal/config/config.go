package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProbeConfig holds the settings for the capture probe and its NATS link.
type ProbeConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// GeoIPConfig points the engine at a MaxMind country database.
type GeoIPConfig struct {
	Path            string `yaml:"path"`
	RefreshInterval string `yaml:"refresh_interval"`
}

// ClickHouseConfig holds the connection settings for a ClickHouse instance.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GobWriterConfig holds the settings for the on-disk gob snapshot writer.
type GobWriterConfig struct {
	RootPath string `yaml:"root_path"`
}

// WriterDef defines a single snapshot writer for the aggregator.
type WriterDef struct {
	Type             string           `yaml:"type"` // "clickhouse" or "gob"
	Enabled          bool             `yaml:"enabled"`
	SnapshotInterval string           `yaml:"snapshot_interval"`
	ClickHouse       ClickHouseConfig `yaml:"clickhouse"`
	Gob              GobWriterConfig  `yaml:"gob"`
}

// CountriesTaskDef defines a single per-country aggregation task.
type CountriesTaskDef struct {
	Name      string `yaml:"name"`
	NumShards uint32 `yaml:"num_shards"`
}

// CountriesGroupDef groups the country tasks with their writers.
type CountriesGroupDef struct {
	Tasks   []CountriesTaskDef `yaml:"tasks"`
	Writers []WriterDef        `yaml:"writers"`
}

// AggregatorConfig holds the configuration for the country aggregation engine.
type AggregatorConfig struct {
	Types               []string          `yaml:"types"`
	Period              string            `yaml:"period"`
	NumWorkers          int               `yaml:"num_workers"`
	SizeOfPacketChannel int               `yaml:"size_of_packet_channel"`
	Countries           CountriesGroupDef `yaml:"countries"`
}

// AlerterRule defines a single threshold rule evaluated against a task.
type AlerterRule struct {
	Name      string  `yaml:"name"`
	TaskName  string  `yaml:"task_name"`
	Country   string  `yaml:"country"` // ISO code; empty matches the task totals
	Metric    string  `yaml:"metric"`  // "bytes_in", "bytes_out" or "flows"
	Operator  string  `yaml:"operator"`
	Threshold float64 `yaml:"threshold"`
}

// AlerterConfig holds the configuration for the threshold alerter.
type AlerterConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CheckInterval string        `yaml:"check_interval"`
	Rules         []AlerterRule `yaml:"rules"`
}

// SMTPConfig holds the settings for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// APIConfig holds the settings for the dashboard API server.
type APIConfig struct {
	HttpListenAddr string           `yaml:"http_listen_addr"`
	ClickHouse     ClickHouseConfig `yaml:"clickhouse"`
	RefreshPeriod  string           `yaml:"refresh_period"` // websocket push cadence
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Probe      ProbeConfig      `yaml:"probe"`
	GeoIP      GeoIPConfig      `yaml:"geoip"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Alerter    AlerterConfig    `yaml:"alerter"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	API        APIConfig        `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
