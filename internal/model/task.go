package model

import "FlowAtlas/internal/config"

// Task defines a single, self-contained aggregation task over country samples.
// This is the interface for the "execution layer".
type Task interface {
	ProcessSample(sample *CountrySample)
	Snapshot() interface{}
	Reset()
	Name() string
	AlerterMsg(rules []config.AlerterRule) string
}
