package model

import (
	"net"
	"time"
)

// FiveTuple represents the 5-tuple of a network packet.
type FiveTuple struct {
	SrcIP    net.IP
	DstIP    net.IP
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8
}

// PacketInfo holds the metadata extracted from a single packet.
type PacketInfo struct {
	Timestamp time.Time
	FiveTuple FiveTuple
	Length    int
}

// CountrySample is a packet observation after GeoIP enrichment. It is the
// unit of work fed to the country aggregation tasks.
type CountrySample struct {
	Timestamp  time.Time
	SrcCountry string // ISO code, empty when the address did not resolve
	DstCountry string
	SrcIP      string
	DstIP      string
	Length     int
}

// CountryTraffic is one aggregated row of the top-countries table. Flows and
// UniqueIPs are relative to the flow target the row was queried for.
type CountryTraffic struct {
	CountryCode string `json:"country_code"`
	BytesIn     uint64 `json:"bytes_in"`
	BytesOut    uint64 `json:"bytes_out"`
	Flows       uint64 `json:"flows"`
	UniqueIPs   uint64 `json:"unique_ips"`
}
