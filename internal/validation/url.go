// Package validation checks API base URLs and request payloads before
// anything is sent.
//
// Base URLs are rejected when they point at private, loopback or link-local
// addresses, so a mistyped STOREDASH_API_URL cannot aim the bearer token at
// an internal service. Private ranges can be allowed via the
// STOREDASH_ALLOW_PRIVATE environment variable (any value recognized by
// strconv.ParseBool) or SetAllowPrivate(true), which is how a locally running
// backend is reached. Cloud metadata endpoints stay blocked either way.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

// reservedNetworks holds the blocked ranges, parsed once at init.
var reservedNetworks []*net.IPNet

var reservedCIDRs = []string{
	"10.0.0.0/8",      // RFC1918
	"172.16.0.0/12",   // RFC1918
	"192.168.0.0/16",  // RFC1918
	"100.64.0.0/10",   // RFC6598 shared address space
	"169.254.0.0/16",  // RFC3927 link local
	"192.0.0.0/24",    // RFC6890
	"192.0.2.0/24",    // RFC5737 documentation
	"198.18.0.0/15",   // RFC2544 benchmarking
	"198.51.100.0/24", // RFC5737 documentation
	"203.0.113.0/24",  // RFC5737 documentation
	"240.0.0.0/4",     // RFC1112 reserved
	"fc00::/7",        // RFC4193 unique local
	"fe80::/10",       // RFC4291 link local
	"ff00::/8",        // RFC4291 multicast
	"::1/128",         // loopback
	"::/128",          // unspecified
	"2001:db8::/32",   // RFC3849 documentation
}

var localHosts = []string{"localhost", "127.0.0.1", "::1", "0.0.0.0", "::"}

var metadataHosts = []string{
	"169.254.169.254",
	"metadata.google.internal",
	"metadata",
	"instance-data",
	"fd00:ec2::254",
}

// lookupIP is replaced in tests.
var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("STOREDASH_ALLOW_PRIVATE")))
	allowPrivate.Store(v)

	for _, cidr := range reservedCIDRs {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			reservedNetworks = append(reservedNetworks, network)
		}
	}
}

// SetAllowPrivate toggles whether private and localhost base URLs are accepted.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// ValidateBaseURL accepts an http(s) URL whose host is neither a cloud
// metadata endpoint nor, unless allowed, a private or loopback address.
// Hostnames are resolved and every address is checked.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if !allowPrivate.Load() && isLocalhost(host) {
		return fmt.Errorf("localhost URLs are not allowed (set STOREDASH_ALLOW_PRIVATE=1 for a local backend)")
	}

	if ip := net.ParseIP(host); ip != nil {
		return checkIP(ip)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ips, err := lookupIP(ctx, host)
	if err != nil {
		// Unresolvable hosts fail later with a transport error.
		return nil
	}
	for _, ip := range ips {
		if err := checkIP(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, ip, err)
		}
	}
	return nil
}

func isLocalhost(host string) bool {
	return slices.Contains(localHosts, host) || strings.HasSuffix(host, ".localhost")
}

func isCloudMetadata(host string) bool {
	return slices.Contains(metadataHosts, host) || strings.HasSuffix(host, ".metadata.google.internal")
}

func checkIP(ip net.IP) error {
	switch {
	case ip.String() == "169.254.169.254":
		return fmt.Errorf("cloud metadata IP address is not allowed")
	case ip.IsUnspecified():
		return fmt.Errorf("unspecified IP addresses are not allowed")
	case ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP addresses are not allowed")
	case allowPrivate.Load():
		return nil
	case ip.IsLoopback():
		return fmt.Errorf("loopback IP addresses are not allowed")
	case isReserved(ip):
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

func isReserved(ip net.IP) bool {
	for _, network := range reservedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
