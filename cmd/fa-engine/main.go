package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/engine/manager"
	"FlowAtlas/internal/geoip"
	"FlowAtlas/internal/model"
	"FlowAtlas/internal/probe"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	log.Println("Starting fa-engine...")

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Open the GeoIP country database and keep it fresh
	resolver, err := geoip.Open(cfg.GeoIP)
	if err != nil {
		log.Fatalf("Failed to open GeoIP database: %v", err)
	}
	defer resolver.Close()
	resolver.StartRefresh()

	// 3. Initialize the aggregation manager
	mgr, err := manager.NewManager(cfg, resolver)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}
	mgr.Start()

	// 4. Subscribe to the probe's packet stream and feed the manager
	sub, err := probe.NewSubscriber(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	input := mgr.Input()
	if err := sub.Start(func(info *model.PacketInfo) {
		input <- info
	}); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	// 5. Wait for a shutdown signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	log.Println("Shutdown signal received, stopping engine...")
	sub.Close()
	mgr.Stop()
	log.Println("Shutdown complete.")
}
