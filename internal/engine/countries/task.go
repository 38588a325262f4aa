// Package countries aggregates enriched packet samples into per-country
// traffic counters, sharded by country code.
package countries

import (
	"fmt"
	"hash/fnv"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/factory"
	"FlowAtlas/internal/model"
)

// --- Factory Registration ---

func init() {
	factory.RegisterAggregator("countries", func(cfg *config.Config) (*factory.TaskGroup, error) {
		groupCfg := cfg.Aggregator.Countries

		// Create all enabled writers for this aggregator group
		writers := make([]model.Writer, 0, len(groupCfg.Writers))
		for _, writerDef := range groupCfg.Writers {
			if !writerDef.Enabled {
				continue
			}

			interval, err := time.ParseDuration(writerDef.SnapshotInterval)
			if err != nil {
				log.Printf("Warning: invalid snapshot_interval for writer type '%s': %v, skipping.", writerDef.Type, err)
				continue
			}

			var writer model.Writer
			switch writerDef.Type {
			case "gob":
				writer = NewGobWriter(writerDef.Gob.RootPath, interval)
			case "clickhouse":
				writer, err = NewClickHouseWriter(writerDef.ClickHouse, interval)
				if err != nil {
					log.Printf("Warning: failed to create writer type '%s': %v, skipping.", writerDef.Type, err)
					continue
				}
			default:
				log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
				continue
			}
			writers = append(writers, writer)
		}

		// Create all tasks for this aggregator group
		tasks := make([]model.Task, len(groupCfg.Tasks))
		for i, taskCfg := range groupCfg.Tasks {
			tasks[i] = New(taskCfg.Name, taskCfg.NumShards)
		}

		return &factory.TaskGroup{Tasks: tasks, Writers: writers}, nil
	})
}

// --- Task Implementation ---

const defaultShardCount = 16

// Task performs per-country aggregation over enriched samples using a
// sharded map. It implements the model.Task interface.
type Task struct {
	name       string
	shards     []*Shard
	shardCount uint32
}

// New creates a new country aggregation task. The country key space is tiny,
// so the default shard count is small.
func New(name string, numShards uint32) model.Task {
	if numShards == 0 || numShards >= 1024 {
		numShards = defaultShardCount
	}
	log.Printf("Creating CountriesTask '%s' with %d shards", name, numShards)
	task := &Task{
		name:       name,
		shards:     make([]*Shard, numShards),
		shardCount: numShards,
	}
	for i := 0; i < int(numShards); i++ {
		task.shards[i] = &Shard{
			Records: make(map[string]*Record),
		}
	}
	return task
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// ProcessSample folds one enriched sample into the records of its source and
// destination countries.
func (t *Task) ProcessSample(sample *model.CountrySample) {
	flowKey := sample.SrcIP + ">" + sample.DstIP

	if sample.SrcCountry != "" {
		shard := t.getShard(sample.SrcCountry)
		shard.Mu.Lock()
		rec := t.record(shard, sample.SrcCountry)
		rec.BytesOut += uint64(sample.Length)
		rec.sourceIPs[sample.SrcIP] = struct{}{}
		if _, seen := rec.sourceFlows[flowKey]; !seen {
			rec.sourceFlows[flowKey] = struct{}{}
			rec.FlowsSource++
		}
		shard.Mu.Unlock()
	}

	if sample.DstCountry != "" {
		shard := t.getShard(sample.DstCountry)
		shard.Mu.Lock()
		rec := t.record(shard, sample.DstCountry)
		rec.BytesIn += uint64(sample.Length)
		rec.destinationIPs[sample.DstIP] = struct{}{}
		if _, seen := rec.destFlows[flowKey]; !seen {
			rec.destFlows[flowKey] = struct{}{}
			rec.FlowsDestination++
		}
		shard.Mu.Unlock()
	}
}

// record returns the country's record, creating it if needed. Caller holds
// the shard lock.
func (t *Task) record(shard *Shard, code string) *Record {
	if rec, ok := shard.Records[code]; ok {
		return rec
	}
	rec := newRecord(code)
	shard.Records[code] = rec
	return rec
}

// Snapshot returns a frozen copy of the current aggregated data, sorted by
// country code for deterministic writer output. Concurrent writes are safe;
// the snapshot reflects a consistent per-shard state at the moment of call.
func (t *Task) Snapshot() interface{} {
	shardResults := make([][]CountrySnapshot, t.shardCount)
	var wg sync.WaitGroup
	wg.Add(int(t.shardCount))

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wg.Done()

			shard := t.shards[i]
			shard.Mu.RLock()
			frozen := make([]CountrySnapshot, 0, len(shard.Records))
			for _, rec := range shard.Records {
				frozen = append(frozen, CountrySnapshot{
					CountryCode:          rec.CountryCode,
					BytesIn:              rec.BytesIn,
					BytesOut:             rec.BytesOut,
					FlowsSource:          rec.FlowsSource,
					FlowsDestination:     rec.FlowsDestination,
					UniqueSourceIPs:      uint64(len(rec.sourceIPs)),
					UniqueDestinationIPs: uint64(len(rec.destinationIPs)),
				})
			}
			shard.Mu.RUnlock()

			shardResults[i] = frozen
		}(i)
	}

	wg.Wait()

	var all []CountrySnapshot
	for _, part := range shardResults {
		all = append(all, part...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CountryCode < all[j].CountryCode
	})

	return SnapshotData{
		TaskName:  t.name,
		Countries: all,
	}
}

// Reset clears the internal state of the task, preparing for a new
// measurement period.
func (t *Task) Reset() {
	var wait sync.WaitGroup
	wait.Add(int(t.shardCount))

	for i := 0; i < int(t.shardCount); i++ {
		go func(i int) {
			defer wait.Done()
			shard := t.shards[i]
			shard.Mu.Lock()
			shard.Records = make(map[string]*Record)
			shard.Mu.Unlock()
		}(i)
	}

	wait.Wait()
}

// AlerterMsg evaluates rules against the task's aggregated data and returns
// an HTML fragment if any rule triggered.
func (t *Task) AlerterMsg(rules []config.AlerterRule) string {
	snapshotData, ok := t.Snapshot().(SnapshotData)
	if !ok {
		log.Printf("ERROR: AlerterMsg in countries task received unexpected snapshot type: %T", t.Snapshot())
		return ""
	}

	byCountry := make(map[string]CountrySnapshot, len(snapshotData.Countries))
	var totals CountrySnapshot
	for _, c := range snapshotData.Countries {
		byCountry[c.CountryCode] = c
		totals.BytesIn += c.BytesIn
		totals.BytesOut += c.BytesOut
		totals.FlowsSource += c.FlowsSource
		totals.FlowsDestination += c.FlowsDestination
	}

	var triggeredMessages []string

	for _, rule := range rules {
		if rule.TaskName != t.name {
			continue
		}

		subject := totals
		scope := "all countries"
		if rule.Country != "" {
			subject = byCountry[rule.Country]
			scope = rule.Country
		}

		var currentValue float64
		var unit string
		switch rule.Metric {
		case "bytes_in":
			currentValue = float64(subject.BytesIn)
			unit = "bytes"
		case "bytes_out":
			currentValue = float64(subject.BytesOut)
			unit = "bytes"
		case "flows":
			currentValue = float64(subject.FlowsSource + subject.FlowsDestination)
			unit = "flows"
		default:
			log.Printf("Warning: unknown metric '%s' in alerter rule '%s'", rule.Metric, rule.Name)
			continue
		}

		if check(currentValue, rule.Threshold, rule.Operator) {
			msg := fmt.Sprintf("<h3>Alert: %s</h3>"+
				"<ul>"+
				"<li><b>Task:</b> <code>%s</code></li>"+
				"<li><b>Scope:</b> <code>%s</code></li>"+
				"<li><b>Metric:</b> <code>%s</code></li>"+
				"<li><b>Condition:</b> <code>%s %.2f</code></li>"+
				"<li><b>Observed Value:</b> <code>%.0f %s</code></li>"+
				"</ul>",
				rule.Name, rule.TaskName, scope, rule.Metric, rule.Operator, rule.Threshold, currentValue, unit)
			triggeredMessages = append(triggeredMessages, msg)
		}
	}

	return strings.Join(triggeredMessages, "<br><hr><br>")
}

// check compares a value against a threshold based on an operator.
func check(value, threshold float64, operator string) bool {
	switch operator {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case "=":
		return value == threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	default:
		log.Printf("Warning: unknown operator '%s' in alerter rule", operator)
		return false
	}
}

// getShard returns the appropriate shard for a given country code.
func (t *Task) getShard(code string) *Shard {
	hasher := fnv.New32a()
	hasher.Write([]byte(code))
	return t.shards[hasher.Sum32()%t.shardCount]
}
