// Package header reads fixed-offset fields out of raw Ethernet/IPv4 frames.
//
// Every accessor is an independent bounds-checked read. None of them loops,
// and none of them allocates unless the read fails.
package header

import (
	"encoding/binary"
	"fmt"

	"xdpwall/constant"
)

// BoundsError reports a read past the end of the frame.
type BoundsError struct {
	Start  int
	Offset int
	Length int
	End    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("read of %d bytes at %d+%d exceeds frame end %d", e.Length, e.Start, e.Offset, e.End)
}

// Field returns buf[start+offset : start+offset+length].
func Field(buf []byte, start, offset, length int) ([]byte, error) {
	if start < 0 || offset < 0 || length < 0 ||
		start > len(buf) || offset > len(buf)-start || length > len(buf)-start-offset {
		return nil, &BoundsError{Start: start, Offset: offset, Length: length, End: len(buf)}
	}
	pos := start + offset
	return buf[pos : pos+length], nil
}

func readUint8(buf []byte, start, offset int) (uint8, error) {
	b, err := Field(buf, start, offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint16(buf []byte, start, offset int) (uint16, error) {
	b, err := Field(buf, start, offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func readUint32(buf []byte, start, offset int) (uint32, error) {
	b, err := Field(buf, start, offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// EtherType returns the EtherType of an untagged Ethernet frame.
func EtherType(frame []byte) (uint16, error) {
	return readUint16(frame, 0, constant.EtherTypeOffset)
}

// IsIPv4 reports whether the frame carries IPv4.
func IsIPv4(frame []byte) (bool, error) {
	et, err := EtherType(frame)
	if err != nil {
		return false, err
	}
	return et == constant.EtherTypeIPv4, nil
}

// IPProtocol returns the protocol number of the IPv4 header following the Ethernet header.
func IPProtocol(frame []byte) (uint8, error) {
	return readUint8(frame, constant.EthHeaderLen, constant.IPProtocolOffset)
}

// Source returns the IPv4 source address in host order.
func Source(frame []byte) (uint32, error) {
	return readUint32(frame, constant.EthHeaderLen, constant.IPSourceOffset)
}

// Destination returns the IPv4 destination address in host order.
func Destination(frame []byte) (uint32, error) {
	return readUint32(frame, constant.EthHeaderLen, constant.IPDestOffset)
}
