package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"FlowAtlas/internal/config"
	"FlowAtlas/internal/engine/protocol"
	"FlowAtlas/internal/model"
	"FlowAtlas/internal/probe"
)

const (
	snapshotLen int32 = 1600
	promiscuous       = true
	timeout           = pcap.BlockForever
)

func main() {
	// --- Command-Line Flag Parsing ---
	mode := flag.String("mode", "pub", "Operating mode: 'pub' to capture and publish, 'sub' to subscribe and print.")
	iface := flag.String("iface", "", "Interface to capture packets from (required for pub mode unless -pcap is set).")
	pcapFile := flag.String("pcap", "", "Read packets from a pcap file instead of a live interface.")
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// --- Mode Dispatch ---
	switch *mode {
	case "pub":
		runProbe(cfg.Probe, *iface, *pcapFile)
	case "sub":
		runSubscriber(cfg.Probe)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %s\n", *mode)
		flag.Usage()
		os.Exit(1)
	}
}

// runProbe captures packets from a live interface or a pcap file and publishes
// them to NATS.
func runProbe(cfg config.ProbeConfig, interfaceName, pcapFile string) {
	if interfaceName == "" && pcapFile == "" {
		log.Println("Error: either -iface or -pcap is required for pub mode.")
		flag.Usage()
		os.Exit(1)
	}

	// 1. Initialize NATS Publisher
	pub, err := probe.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	// 2. Open the capture handle
	var handle *pcap.Handle
	if pcapFile != "" {
		log.Printf("Starting fa-probe in PUB mode on pcap file: %s", pcapFile)
		handle, err = pcap.OpenOffline(pcapFile)
	} else {
		log.Printf("Starting fa-probe in PUB mode on interface: %s", interfaceName)
		handle, err = pcap.OpenLive(interfaceName, snapshotLen, promiscuous, timeout)
	}
	if err != nil {
		log.Fatalf("Error opening capture source: %v", err)
	}
	defer handle.Close()

	log.Println("Capture started successfully. Publishing packets to NATS...")

	// 3. Set up a channel to handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 4. Start processing packets in a separate goroutine
	go func() {
		packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
		packetsPublished := 0
		for packet := range packetSource.Packets() {
			info, err := protocol.ParsePacket(packet.Data())
			if err != nil {
				continue // Skip non-IP packets
			}
			if meta := packet.Metadata(); meta != nil && !meta.Timestamp.IsZero() {
				info.Timestamp = meta.Timestamp
			}
			if err := pub.Publish(info); err != nil {
				log.Printf("Failed to publish packet: %v", err)
			}
			packetsPublished++
			if packetsPublished%1000 == 0 {
				log.Printf("%d packets published...", packetsPublished)
			}
		}
	}()

	// 5. Wait for a shutdown signal
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}

// runSubscriber subscribes to NATS and prints every received packet.
func runSubscriber(cfg config.ProbeConfig) {
	log.Println("Starting fa-probe in SUBSCRIBER mode...")

	sub, err := probe.NewSubscriber(cfg)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	handler := func(info *model.PacketInfo) {
		log.Printf("Received Packet: %+v", info)
	}

	if err := sub.Start(handler); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
}
