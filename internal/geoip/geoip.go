// Package geoip resolves IP addresses to ISO country codes from a MaxMind
// MMDB database, with periodic reload so a refreshed database file is picked
// up without a restart.
package geoip

import (
	"fmt"
	"log"
	"net/netip"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang/v2"

	"FlowAtlas/internal/config"
)

// countryRecord is a minimal struct for fast MMDB decoding.
type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Resolver maps IP addresses to country codes. Safe for concurrent use;
// reloads swap the reader under a write lock.
type Resolver struct {
	path    string
	refresh time.Duration

	mu     sync.RWMutex
	reader *maxminddb.Reader

	done chan struct{}
}

// Open loads the configured MMDB file and returns a ready resolver.
func Open(cfg config.GeoIPConfig) (*Resolver, error) {
	reader, err := maxminddb.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database '%s': %w", cfg.Path, err)
	}

	var refresh time.Duration
	if cfg.RefreshInterval != "" {
		refresh, err = time.ParseDuration(cfg.RefreshInterval)
		if err != nil {
			reader.Close()
			return nil, fmt.Errorf("invalid geoip refresh_interval: %w", err)
		}
	}

	log.Printf("Loaded GeoIP database '%s' (%s)", cfg.Path, reader.Metadata.DatabaseType)
	return &Resolver{
		path:    cfg.Path,
		refresh: refresh,
		reader:  reader,
		done:    make(chan struct{}),
	}, nil
}

// LookupCountry returns the ISO country code for the given address, or an
// empty string when the address is not in the database.
func (r *Resolver) LookupCountry(addr netip.Addr) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var record countryRecord
	if err := r.reader.Lookup(addr).Decode(&record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// StartRefresh starts the periodic reload loop if a refresh interval was
// configured. Returns immediately.
func (r *Resolver) StartRefresh() {
	if r.refresh <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(r.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.reload()
			case <-r.done:
				return
			}
		}
	}()
}

func (r *Resolver) reload() {
	reader, err := maxminddb.Open(r.path)
	if err != nil {
		log.Printf("Failed to reload geoip database '%s': %v", r.path, err)
		return
	}

	r.mu.Lock()
	old := r.reader
	r.reader = reader
	r.mu.Unlock()

	if old != nil {
		old.Close()
	}
	log.Printf("Reloaded GeoIP database '%s'", r.path)
}

// Close stops the refresh loop and releases the database.
func (r *Resolver) Close() error {
	close(r.done)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reader != nil {
		return r.reader.Close()
	}
	return nil
}
