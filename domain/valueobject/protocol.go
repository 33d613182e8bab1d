package valueobject

import (
	"xdpwall/constant"
	"xdpwall/pkg/convert"
)

// Protocol is the transport protocol carried by an IPv4 packet.
// The numeric value is the IP protocol number, and every unsupported number collapses to ProtocolUnknown.
type Protocol uint8

const (
	ProtocolICMP    Protocol = Protocol(constant.IPProtocolNumICMP)
	ProtocolTCP     Protocol = Protocol(constant.IPProtocolNumTCP)
	ProtocolUDP     Protocol = Protocol(constant.IPProtocolNumUDP)
	ProtocolUnknown Protocol = 255
)

// ProtocolFromNumber maps an IP header protocol number to a Protocol.
func ProtocolFromNumber(n uint8) Protocol {
	switch Protocol(n) {
	case ProtocolICMP, ProtocolTCP, ProtocolUDP:
		return Protocol(n)
	}
	return ProtocolUnknown
}

func (p Protocol) String() string {
	return convert.ProtoToString(uint8(p))
}
