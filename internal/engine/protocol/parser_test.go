package protocol

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// buildPacket serializes an Ethernet/IPv4/UDP packet for parsing.
func buildPacket(t *testing.T, src, dst net.IP) []byte {
	t.Helper()

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    src,
		DstIP:    dst,
	}
	udp := &layers.UDP{SrcPort: 12345, DstPort: 53}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("Failed to set network layer: %v", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	payload := gopacket.Payload([]byte("test-payload"))
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload); err != nil {
		t.Fatalf("Failed to serialize packet: %v", err)
	}
	return buf.Bytes()
}

func TestParsePacket(t *testing.T) {
	src := net.ParseIP("192.168.0.1").To4()
	dst := net.ParseIP("8.8.8.8").To4()

	info, err := ParsePacket(buildPacket(t, src, dst))
	if err != nil {
		t.Fatalf("ParsePacket failed: %v", err)
	}

	if !info.FiveTuple.SrcIP.Equal(src) {
		t.Errorf("SrcIP = %s, want %s", info.FiveTuple.SrcIP, src)
	}
	if !info.FiveTuple.DstIP.Equal(dst) {
		t.Errorf("DstIP = %s, want %s", info.FiveTuple.DstIP, dst)
	}
	if info.FiveTuple.SrcPort != 12345 || info.FiveTuple.DstPort != 53 {
		t.Errorf("Ports = %d->%d", info.FiveTuple.SrcPort, info.FiveTuple.DstPort)
	}
	if info.FiveTuple.Protocol != uint8(layers.IPProtocolUDP) {
		t.Errorf("Protocol = %d", info.FiveTuple.Protocol)
	}
	if info.Length == 0 {
		t.Error("Length should not be 0")
	}
}

func TestParsePacketRejectsNonIP(t *testing.T) {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   eth.SrcMAC,
		SourceProtAddress: []byte{192, 168, 0, 1},
		DstHwAddress:      make([]byte, 6),
		DstProtAddress:    []byte{192, 168, 0, 2},
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, eth, arp); err != nil {
		t.Fatalf("Failed to serialize ARP packet: %v", err)
	}

	if _, err := ParsePacket(buf.Bytes()); err == nil {
		t.Error("expected an error for a non-IP packet")
	}
}
