package valueobject

import (
	"net"

	"golang.org/x/xerrors"

	"xdpwall/pkg/convert"
)

// Address is an IPv4 address in host order, so 1.2.3.4 is 0x01020304.
type Address uint32

func (a Address) String() string {
	return convert.Ntoa(uint32(a))
}

func (a Address) IP() net.IP {
	return convert.Uint32ToIP(uint32(a))
}

func ParseAddress(s string) (Address, error) {
	n, err := convert.Aton(s)
	if err != nil {
		return 0, xerrors.Errorf("failed to parse address: %w", err)
	}
	return Address(n), nil
}

func AddressFromIP(ip net.IP) (Address, error) {
	n, err := convert.IPToUint32(ip)
	if err != nil {
		return 0, xerrors.Errorf(": %w", err)
	}
	return Address(n), nil
}
