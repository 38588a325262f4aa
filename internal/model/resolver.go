package model

import "net/netip"

// CountryResolver maps an IP address to an ISO country code. An empty string
// means the address could not be resolved.
type CountryResolver interface {
	LookupCountry(addr netip.Addr) string
}
