package manager

import (
	"fmt"
	"log"
	"net"
	"net/netip"
	"sync"
	"time"

	"FlowAtlas/internal/alerter"
	"FlowAtlas/internal/config"
	_ "FlowAtlas/internal/engine/countries" // Registers the countries task aggregator
	"FlowAtlas/internal/factory"
	"FlowAtlas/internal/metrics"
	"FlowAtlas/internal/model"
	"FlowAtlas/internal/notification"
)

// Manager orchestrates the aggregation tasks, their writers, GeoIP
// enrichment and the alerter.
type Manager struct {
	taskGroups []factory.TaskGroup
	resolver   model.CountryResolver
	alerter    *alerter.Alerter

	// Worker pool for concurrent packet processing
	packetChannel chan *model.PacketInfo
	numWorkers    int
	workerWg      sync.WaitGroup

	// Snapshotting and Resetting resources
	period        time.Duration // Global measurement period
	done          chan struct{}
	snapshotterWg sync.WaitGroup
	resetterWg    sync.WaitGroup
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config, resolver model.CountryResolver) (*Manager, error) {
	taskGroups, err := factory.Create(cfg)
	if err != nil {
		return nil, err
	}

	period, err := time.ParseDuration(cfg.Aggregator.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid aggregator period: %w", err)
	}
	if period <= 0 {
		return nil, fmt.Errorf("aggregator period must be a positive duration")
	}

	var alertr *alerter.Alerter
	if cfg.Alerter.Enabled {
		var allTasks []model.Task
		for _, group := range taskGroups {
			allTasks = append(allTasks, group.Tasks...)
		}

		var notifier model.Notifier
		if cfg.SMTP.Host != "" { // Simple check to see if email is configured
			notifier = notification.NewEmailNotifier(cfg.SMTP)
		}

		if notifier != nil {
			alertr, err = alerter.NewAlerter(&cfg.Alerter, allTasks, notifier)
			if err != nil {
				return nil, fmt.Errorf("failed to create alerter: %w", err)
			}
			log.Println("Alerter enabled and initialized.")
		} else {
			log.Println("Alerter is enabled in config, but no notifiers are configured. Alerter will not run.")
		}
	}

	return &Manager{
		taskGroups:    taskGroups,
		resolver:      resolver,
		alerter:       alertr,
		period:        period,
		done:          make(chan struct{}),
		packetChannel: make(chan *model.PacketInfo, cfg.Aggregator.SizeOfPacketChannel),
		numWorkers:    cfg.Aggregator.NumWorkers,
	}, nil
}

// Input returns the channel to which packets should be sent for processing.
func (m *Manager) Input() chan<- *model.PacketInfo {
	return m.packetChannel
}

// Start begins the manager's packet processing workers, snapshotter, and resetter goroutines.
func (m *Manager) Start() {
	// For each group, start a dedicated snapshotter for each of its writers.
	for _, group := range m.taskGroups {
		for _, writer := range group.Writers {
			m.snapshotterWg.Add(1)
			go m.runSnapshotter(writer, group.Tasks)
			log.Printf("Started snapshotter for a writer with interval %s, handling %d tasks.", writer.GetInterval(), len(group.Tasks))
		}
	}

	// Start the global resetter for all tasks across all groups.
	m.resetterWg.Add(1)
	go m.runResetter()
	log.Printf("Started global resetter with period %s", m.period)

	// Start the independent alerter goroutine if it's enabled.
	if m.alerter != nil {
		go m.alerter.Start()
	}

	// Start the packet processing worker pool.
	m.workerWg.Add(m.numWorkers)
	for i := 0; i < m.numWorkers; i++ {
		go m.worker()
	}
	log.Printf("Manager started with %d workers.", m.numWorkers)
}

// Stop drains the packet channel, flushes a final snapshot through every
// writer, and shuts everything down.
func (m *Manager) Stop() {
	close(m.packetChannel)
	m.workerWg.Wait()

	close(m.done)
	m.snapshotterWg.Wait()
	m.resetterWg.Wait()

	if m.alerter != nil {
		m.alerter.Stop()
	}
	log.Println("Manager stopped.")
}

// worker consumes packets, enriches them with GeoIP countries and feeds the
// resulting samples to every task.
func (m *Manager) worker() {
	defer m.workerWg.Done()
	for packet := range m.packetChannel {
		metrics.PacketsProcessedTotal.Inc()

		sample := m.enrich(packet)
		if sample.SrcCountry == "" && sample.DstCountry == "" {
			metrics.SamplesUnresolvedTotal.Inc()
			continue
		}

		for _, group := range m.taskGroups {
			for _, task := range group.Tasks {
				task.ProcessSample(sample)
			}
		}
	}
}

// enrich resolves both endpoints of a packet to country codes.
func (m *Manager) enrich(packet *model.PacketInfo) *model.CountrySample {
	sample := &model.CountrySample{
		Timestamp: packet.Timestamp,
		SrcIP:     packet.FiveTuple.SrcIP.String(),
		DstIP:     packet.FiveTuple.DstIP.String(),
		Length:    packet.Length,
	}
	if addr, ok := toAddr(packet.FiveTuple.SrcIP); ok {
		sample.SrcCountry = m.resolver.LookupCountry(addr)
	}
	if addr, ok := toAddr(packet.FiveTuple.DstIP); ok {
		sample.DstCountry = m.resolver.LookupCountry(addr)
	}
	return sample
}

func toAddr(ip net.IP) (netip.Addr, bool) {
	if v4 := ip.To4(); v4 != nil {
		return netip.AddrFromSlice(v4)
	}
	return netip.AddrFromSlice(ip)
}

// runSnapshotter runs a dedicated snapshot loop for a single writer and its associated tasks.
func (m *Manager) runSnapshotter(writer model.Writer, tasks []model.Task) {
	defer m.snapshotterWg.Done()
	interval := writer.GetInterval()
	if interval <= 0 {
		log.Printf("Invalid interval %s for writer, snapshotter will not run.", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.takeSnapshotForWriter(writer, tasks)
		case <-m.done:
			m.takeSnapshotForWriter(writer, tasks)
			return
		}
	}
}

// takeSnapshotForWriter orchestrates taking and writing a snapshot for a specific writer.
func (m *Manager) takeSnapshotForWriter(writer model.Writer, tasks []model.Task) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for _, task := range tasks {
		go func(t model.Task) {
			defer wg.Done()
			snapshotData := t.Snapshot()
			if err := writer.Write(snapshotData, timestamp); err != nil {
				log.Printf("Error writing snapshot for task '%s': %v", t.Name(), err)
			}
		}(task)
	}

	wg.Wait()
}

// runResetter clears every task at the end of each measurement period.
func (m *Manager) runResetter() {
	defer m.resetterWg.Done()
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, group := range m.taskGroups {
				for _, task := range group.Tasks {
					task.Reset()
				}
			}
		case <-m.done:
			return
		}
	}
}
