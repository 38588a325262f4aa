package countries

import "sync"

// Record accumulates the traffic counters of a single country. Byte counters
// are direction-agnostic per record; flows and distinct IPs are tracked per
// flow target.
type Record struct {
	CountryCode      string
	BytesIn          uint64
	BytesOut         uint64
	FlowsSource      uint64
	FlowsDestination uint64

	// Distinct sets, cleared on Reset. Bounded by the measurement period.
	sourceIPs      map[string]struct{}
	destinationIPs map[string]struct{}
	sourceFlows    map[string]struct{}
	destFlows      map[string]struct{}
}

func newRecord(code string) *Record {
	return &Record{
		CountryCode:    code,
		sourceIPs:      make(map[string]struct{}),
		destinationIPs: make(map[string]struct{}),
		sourceFlows:    make(map[string]struct{}),
		destFlows:      make(map[string]struct{}),
	}
}

// Shard is a part of the sharded country map, with its own lock.
type Shard struct {
	Records map[string]*Record
	Mu      sync.RWMutex
}

// CountrySnapshot is the frozen form of one country record.
type CountrySnapshot struct {
	CountryCode          string
	BytesIn              uint64
	BytesOut             uint64
	FlowsSource          uint64
	FlowsDestination     uint64
	UniqueSourceIPs      uint64
	UniqueDestinationIPs uint64
}

// SnapshotData is the full snapshot of a single country task, as handed to
// writers.
type SnapshotData struct {
	TaskName  string
	Countries []CountrySnapshot
}
