// Package testutil builds raw frames for tests that exercise the classification path.
package testutil

import (
	"encoding/binary"
	"net"

	"xdpwall/constant"
)

const (
	EtherTypeARP  uint16 = 0x0806
	EtherTypeIPv6 uint16 = 0x86dd
)

// IPv4Frame returns an Ethernet frame carrying a minimal 20-byte IPv4 header.
func IPv4Frame(proto uint8, src, dst string) []byte {
	frame := make([]byte, constant.EthHeaderLen+20)
	copy(frame[0:6], []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	copy(frame[6:12], []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01})
	binary.BigEndian.PutUint16(frame[constant.EtherTypeOffset:], constant.EtherTypeIPv4)

	ip := frame[constant.EthHeaderLen:]
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:], 20)
	ip[8] = 64
	ip[constant.IPProtocolOffset] = proto
	copy(ip[constant.IPSourceOffset:], net.ParseIP(src).To4())
	copy(ip[constant.IPDestOffset:], net.ParseIP(dst).To4())
	return frame
}

// EtherFrame returns an Ethernet frame of the given type padded to the minimum payload.
func EtherFrame(etherType uint16) []byte {
	frame := make([]byte, constant.EthHeaderLen+46)
	binary.BigEndian.PutUint16(frame[constant.EtherTypeOffset:], etherType)
	return frame
}
