package convert

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"syscall"

	"golang.org/x/xerrors"
)

func ProtoToString(proto uint8) (protocol string) {
	if proto == syscall.IPPROTO_TCP {
		protocol = "TCP"
	} else if proto == syscall.IPPROTO_UDP {
		protocol = "UDP"
	} else if proto == syscall.IPPROTO_ICMP {
		protocol = "ICMP"
	} else {
		protocol = "UNK"
	}

	return
}

// ActionToString returns the XDP name of an action code.
func ActionToString(action uint32) string {
	switch action {
	case 0:
		return "ABORTED"
	case 1:
		return "DROP"
	case 2:
		return "PASS"
	case 3:
		return "TX"
	case 4:
		return "REDIRECT"
	}
	return "UNKNOWN"
}

// Ntoa formats a host order IPv4 address as a dotted quad.
func Ntoa(ip uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

// Aton parses a dotted quad into a host order IPv4 address.
func Aton(s string) (uint32, error) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return 0, xerrors.Errorf("invalid ip address: %q", s)
	}
	return IPToUint32(ip)
}

// IPToUint32 converts an IPv4 (or IPv4-mapped) address to its host order integer.
func IPToUint32(ip net.IP) (uint32, error) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, xerrors.Errorf("only IPv4 is supported: %s", ip)
	}
	return binary.BigEndian.Uint32(v4), nil
}

// Uint32ToIP is the inverse of IPToUint32.
func Uint32ToIP(ip uint32) net.IP {
	res := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(res, ip)
	return res
}

// HostToIPv4s resolves a literal address or a host name to its IPv4 addresses.
func HostToIPv4s(host string) (IPs []net.IP, err error) {
	if host == "" {
		err = xerrors.New("empty host")
		return
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			err = xerrors.Errorf("only IPv4 is supported: %s", host)
			return
		}
		IPs = []net.IP{ip.To4()}
		return
	}

	addrsStr, err := net.LookupHost(host)
	if err != nil {
		err = xerrors.Errorf("failed to look up host: %s err: %w", host, err)
		return
	}
	for _, addrStr := range addrsStr {
		if ip := net.ParseIP(addrStr).To4(); ip != nil {
			IPs = append(IPs, ip)
		}
	}
	if len(IPs) == 0 {
		err = xerrors.Errorf("host has no IPv4 address: %s", host)
	}
	return
}
